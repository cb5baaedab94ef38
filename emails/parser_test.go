package emails

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSingleValid(t *testing.T) {
	assert := assert.New(t)
	res := Parse("someone@example.com")
	assert.Equal([]string{"someone@example.com"}, res.Valid)
	assert.Empty(res.Invalid)
	assert.Empty(res.Duplicates)
	assert.False(res.TooLong)
}

func TestParseSplitsOnAllSeparators(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@example.com, b@example.com;c@example.com\td@example.com\ne@example.com")
	assert.Equal([]string{
		"a@example.com",
		"b@example.com",
		"c@example.com",
		"d@example.com",
		"e@example.com",
	}, res.Valid)
	assert.Len(res.Tokens, 5)
}

func TestParseEmptyTokensDiscarded(t *testing.T) {
	assert := assert.New(t)
	res := Parse(" ,;  ,\t\n ")
	assert.Empty(res.Tokens)
	assert.Empty(res.Valid)
	assert.Empty(res.Invalid)
	assert.Empty(res.Duplicates)
}

func TestParseDuplicateGoesToDuplicates(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@b.com, a@b.com")
	assert.Equal([]string{"a@b.com"}, res.Valid)
	assert.Equal([]string{"a@b.com"}, res.Duplicates)
	assert.Empty(res.Invalid)
}

func TestParseDuplicateIsCaseInsensitiveKeepsFirstSeenCasing(t *testing.T) {
	assert := assert.New(t)
	res := Parse("Alice@Example.com alice@example.COM")
	assert.Equal([]string{"Alice@Example.com"}, res.Valid)
	assert.Equal([]string{"alice@example.COM"}, res.Duplicates)
}

func TestParseMissingAtIsInvalidFormat(t *testing.T) {
	assert := assert.New(t)
	res := Parse(" x ")
	assert.Empty(res.Valid)
	if assert.Len(res.Invalid, 1) {
		assert.Equal("x", res.Invalid[0].Input)
		assert.Equal(ReasonInvalidFormat, res.Invalid[0].Reason)
	}
}

func TestParseDoubleAtIsInvalidFormat(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@b@example.com")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidFormat, res.Invalid[0].Reason)
	}
}

func TestParseSingleLabelDomainIsInvalidDomain(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@localhost")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidDomain, res.Invalid[0].Reason)
	}
}

func TestParseEmptyDomainLabelIsInvalidDomain(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@example..com a@")
	assert.Len(res.Invalid, 2)
	for _, v := range res.Invalid {
		assert.Equal(ReasonInvalidDomain, v.Reason)
	}
}

func TestParseUnknownTLD(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@example.nosuchtld")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidTLD, res.Invalid[0].Reason)
	}
}

func TestParseCountryCodeTLDIsValid(t *testing.T) {
	assert := assert.New(t)
	res := Parse("a@example.de b@example.at")
	assert.Len(res.Valid, 2)
}

func TestParseLocalPartRules(t *testing.T) {
	assert := assert.New(t)

	res := Parse(".leading@example.com")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidFormat, res.Invalid[0].Reason)
	}

	res = Parse("double..dot@example.com")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidFormat, res.Invalid[0].Reason)
	}

	res = Parse(strings.Repeat("a", 65) + "@example.com")
	if assert.Len(res.Invalid, 1) {
		assert.Equal(ReasonInvalidFormat, res.Invalid[0].Reason)
	}

	res = Parse("first.last+tag@example.com")
	assert.Len(res.Valid, 1)
}

func TestParseTooLongShortCircuits(t *testing.T) {
	assert := assert.New(t)
	res := ParseWithLimit("a@example.com b@example.com", 5)
	assert.True(res.TooLong)
	assert.Empty(res.Valid)
	assert.Empty(res.Invalid)
	assert.Empty(res.Duplicates)
	assert.Empty(res.Tokens)
}

// every non-empty token ends up in exactly one bucket
func TestParsePartitionsAllTokens(t *testing.T) {
	assert := assert.New(t)
	input := "a@b.com nonsense a@B.com c@example..com d@x.dev d@x.dev;e@e.io"
	res := Parse(input)
	total := len(res.Valid) + len(res.Invalid) + len(res.Duplicates)
	assert.Equal(len(res.Tokens), total)
	assert.Equal([]string{"a@b.com", "d@x.dev", "e@e.io"}, res.Valid)
	assert.Equal([]string{"a@B.com", "d@x.dev"}, res.Duplicates)
	assert.Len(res.Invalid, 2)
}

func TestNormalizeAndEqual(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("user@example.com", Normalize(" User@Example.COM "))
	assert.True(Equal("User@Example.com", "user@EXAMPLE.com"))
	assert.False(Equal("user@example.com", "other@example.com"))
}
