package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseMapping_Fold(t *testing.T) {
	cases := []struct {
		mapping CaseMapping
		a, b    string
		equal   bool
	}{
		{CaseMappingASCII, "Nick", "nick", true},
		{CaseMappingASCII, "Nick{}", "nick{}", true},
		{CaseMappingRFC1459, "Nick{}", "nick[]", true},
		{CaseMappingRFC1459, "a~b", "a^b", true},
		{CaseMappingRFC1459Strict, "a~b", "a^b", false},
		{CaseMappingRFC1459Strict, "Nick|", "nick\\", true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.equal, tc.mapping.Equal(tc.a, tc.b), "%v.Equal(%q, %q)", tc.mapping, tc.a, tc.b)
	}
}

func TestParseCaseMapping(t *testing.T) {
	assert.Equal(t, CaseMappingASCII, ParseCaseMapping("ascii"))
	assert.Equal(t, CaseMappingRFC1459Strict, ParseCaseMapping("rfc1459-strict"))
	assert.Equal(t, CaseMappingRFC1459, ParseCaseMapping("rfc1459"))
	assert.Equal(t, CaseMappingRFC1459, ParseCaseMapping("unknown-token"))
}
