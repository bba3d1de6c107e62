package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISupportParam(t *testing.T) {
	p := ParseISupportParam("CASEMAPPING=rfc1459")
	assert.Equal(t, ISupportEq, p.Kind)
	assert.Equal(t, "CASEMAPPING", p.Key)
	assert.Equal(t, "rfc1459", p.Value)

	p = ParseISupportParam("-ETRACE")
	assert.Equal(t, ISupportUnset, p.Kind)
	assert.Equal(t, "ETRACE", p.Key)

	p = ParseISupportParam("WHOX")
	assert.Equal(t, ISupportSet, p.Kind)
	assert.Equal(t, "WHOX", p.Key)
}
