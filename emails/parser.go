// Package emails turns free-form recipient input into a categorized
// set of candidate addresses. Parsing is pure, deterministic and runs
// in time linear to the input, there are no regular expressions that
// could backtrack on hostile input.
package emails

import "strings"

// DefaultMaxInputLength bounds the raw input when no explicit
// limit is configured
const DefaultMaxInputLength = 10000

const (
	maxLocalPartLength = 64
	maxDomainLength    = 255
	maxLabelLength     = 63
)

// Reason describes why a candidate was rejected
type Reason string

const (
	// ReasonInvalidFormat covers structural failures, a missing or
	// doubled @ separator or a malformed local part
	ReasonInvalidFormat Reason = "invalid format"
	// ReasonInvalidDomain means the domain does not split into at
	// least two non-empty labels
	ReasonInvalidDomain Reason = "invalid domain"
	// ReasonInvalidTLD means the final label is not a known top level domain
	ReasonInvalidTLD Reason = "invalid TLD"
)

// Invalid pairs a rejected token with its failure reason
type Invalid struct {
	Input  string `json:"input"`
	Reason Reason `json:"reason"`
}

// Result is the outcome of parsing a recipient input string.
// Valid, Invalid and Duplicates are disjoint, their union equals
// the set of non-empty tokens. When TooLong is set all other
// fields are empty.
type Result struct {
	Valid      []string `json:"valid"`
	Invalid    []Invalid `json:"invalid"`
	Duplicates []string `json:"duplicates"`
	Tokens     []string `json:"tokens"`
	TooLong    bool     `json:"too_long,omitempty"`
}

// Parse splits and validates the given input with the default length bound
func Parse(input string) Result {
	return ParseWithLimit(input, DefaultMaxInputLength)
}

// ParseWithLimit splits and validates the given input, inputs above
// the limit are rejected outright without being parsed
func ParseWithLimit(input string, maxLen int) Result {
	if maxLen <= 0 {
		maxLen = DefaultMaxInputLength
	}
	res := Result{
		Valid:      []string{},
		Invalid:    []Invalid{},
		Duplicates: []string{},
		Tokens:     []string{},
	}
	if len(input) > maxLen {
		res.TooLong = true
		return res
	}
	tokens := splitCandidates(input)
	res.Tokens = tokens
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if _, ok := seen[key]; ok {
			res.Duplicates = append(res.Duplicates, tok)
			continue
		}
		seen[key] = struct{}{}
		if reason, ok := check(tok); !ok {
			res.Invalid = append(res.Invalid, Invalid{Input: tok, Reason: reason})
			continue
		}
		res.Valid = append(res.Valid, tok)
	}
	return res
}

// Normalize lower-cases an address for comparisons
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Equal compares two addresses case-insensitively
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func splitCandidates(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', ',', ';':
			return true
		}
		return false
	})
}

// check validates a single candidate, the order of checks is fixed:
// separator, domain shape, TLD, then remaining local part structure
func check(candidate string) (Reason, bool) {
	at := strings.IndexByte(candidate, '@')
	if at <= 0 || at != strings.LastIndexByte(candidate, '@') {
		return ReasonInvalidFormat, false
	}
	local, domain := candidate[:at], candidate[at+1:]

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return ReasonInvalidDomain, false
	}
	for _, l := range labels {
		if l == "" {
			return ReasonInvalidDomain, false
		}
	}

	if !validTLD(labels[len(labels)-1]) {
		return ReasonInvalidTLD, false
	}

	if !validLocalPart(local) || !validDomain(domain, labels) {
		return ReasonInvalidFormat, false
	}
	return "", true
}

func validLocalPart(local string) bool {
	if len(local) == 0 || len(local) > maxLocalPartLength {
		return false
	}
	if local[0] == '.' || local[len(local)-1] == '.' {
		return false
	}
	prevDot := false
	for i := 0; i < len(local); i++ {
		c := local[i]
		if c == '.' {
			if prevDot {
				return false
			}
			prevDot = true
			continue
		}
		prevDot = false
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '!' || c == '#' || c == '$' || c == '%' || c == '&' ||
			c == '\'' || c == '*' || c == '+' || c == '-' || c == '/' ||
			c == '=' || c == '?' || c == '^' || c == '_' || c == '`' ||
			c == '{' || c == '|' || c == '}' || c == '~':
		default:
			return false
		}
	}
	return true
}

func validDomain(domain string, labels []string) bool {
	if len(domain) > maxDomainLength {
		return false
	}
	for _, l := range labels {
		if len(l) > maxLabelLength {
			return false
		}
		if l[0] == '-' || l[len(l)-1] == '-' {
			return false
		}
		for i := 0; i < len(l); i++ {
			c := l[i]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}
