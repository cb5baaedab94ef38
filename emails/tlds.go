package emails

import "strings"

// generic and sponsored top level domains accepted as recipient domains,
// two letter country codes are handled separately in validTLD
var genericTLDs = map[string]struct{}{
	"com":       {},
	"org":       {},
	"net":       {},
	"edu":       {},
	"gov":       {},
	"int":       {},
	"mil":       {},
	"info":      {},
	"biz":       {},
	"name":      {},
	"pro":       {},
	"mobi":      {},
	"aero":      {},
	"asia":      {},
	"cat":       {},
	"coop":      {},
	"jobs":      {},
	"museum":    {},
	"tel":       {},
	"travel":    {},
	"xxx":       {},
	"app":       {},
	"dev":       {},
	"page":      {},
	"blog":      {},
	"shop":      {},
	"store":     {},
	"online":    {},
	"site":      {},
	"website":   {},
	"space":     {},
	"tech":      {},
	"cloud":     {},
	"digital":   {},
	"live":      {},
	"life":      {},
	"world":     {},
	"today":     {},
	"news":      {},
	"media":     {},
	"agency":    {},
	"studio":    {},
	"design":    {},
	"photography": {},
	"email":     {},
	"group":     {},
	"team":      {},
	"club":      {},
	"social":    {},
	"network":   {},
	"systems":   {},
	"solutions": {},
	"services":  {},
	"support":   {},
	"company":   {},
	"business":  {},
	"ventures":  {},
	"capital":   {},
	"finance":   {},
	"money":     {},
	"fund":      {},
	"bank":      {},
	"insurance": {},
	"legal":     {},
	"health":    {},
	"care":      {},
	"fitness":   {},
	"travelers": {},
	"tours":     {},
	"vacations": {},
	"holiday":   {},
	"flights":   {},
	"hotel":     {},
	"hotels":    {},
	"camp":      {},
	"cruise":    {},
	"cruises":   {},
	"map":       {},
	"place":     {},
	"city":      {},
	"town":      {},
	"land":      {},
	"earth":     {},
	"guide":     {},
	"expert":    {},
	"academy":   {},
	"school":    {},
	"university": {},
	"institute": {},
	"education": {},
	"courses":   {},
	"training":  {},
	"io":        {},
	"ai":        {},
	"co":        {},
	"me":        {},
	"tv":        {},
	"fm":        {},
	"xyz":       {},
	"one":       {},
	"plus":      {},
	"pub":       {},
	"wiki":      {},
	"zone":      {},
	"works":     {},
	"tools":     {},
	"run":       {},
	"codes":     {},
	"software":  {},
	"engineer":  {},
	"engineering": {},
	"computer":  {},
	"games":     {},
	"game":      {},
	"fun":       {},
	"party":     {},
	"events":    {},
	"tickets":   {},
	"photos":    {},
	"pictures":  {},
	"video":     {},
	"film":      {},
	"music":     {},
	"art":       {},
	"gallery":   {},
	"house":     {},
	"home":      {},
	"garden":    {},
	"kitchen":   {},
	"coffee":    {},
	"pizza":     {},
	"restaurant": {},
	"bar":       {},
	"wine":      {},
	"beer":      {},
	"food":      {},
	"recipes":   {},
	"market":    {},
	"sale":      {},
	"deals":     {},
	"discount":  {},
	"gifts":     {},
	"toys":      {},
	"fashion":   {},
	"clothing":  {},
	"shoes":     {},
	"jewelry":   {},
	"watch":     {},
	"auto":      {},
	"car":       {},
	"cars":      {},
	"bike":      {},
	"taxi":      {},
	"limo":      {},
	"flowers":   {},
	"green":     {},
	"eco":       {},
	"energy":    {},
	"solar":     {},
	"build":     {},
	"builders":  {},
	"construction": {},
	"contractors":  {},
	"equipment": {},
	"farm":      {},
	"fish":      {},
	"dog":       {},
	"cash":      {},
	"credit":    {},
	"loans":     {},
	"mortgage":  {},
	"tax":       {},
	"accountant": {},
	"accountants": {},
	"lawyer":    {},
	"attorney":  {},
	"dental":    {},
	"dentist":   {},
	"doctor":    {},
	"clinic":    {},
	"hospital":  {},
	"pharmacy":  {},
	"vet":       {},
	"church":    {},
	"charity":   {},
	"foundation": {},
	"community": {},
	"center":    {},
	"directory": {},
	"report":    {},
	"review":    {},
	"reviews":   {},
	"rocks":     {},
	"ninja":     {},
	"guru":      {},
	"cool":      {},
	"best":      {},
	"top":       {},
	"vip":       {},
	"win":       {},
	"gold":      {},
	"red":       {},
	"blue":      {},
	"pink":      {},
	"black":     {},
}

// validTLD reports if the final domain label is an acceptable top level
// domain, either a known generic TLD or a two letter country code
func validTLD(label string) bool {
	l := strings.ToLower(label)
	if _, ok := genericTLDs[l]; ok {
		return true
	}
	if len(l) == 2 {
		for i := 0; i < 2; i++ {
			if l[i] < 'a' || l[i] > 'z' {
				return false
			}
		}
		return true
	}
	return false
}
