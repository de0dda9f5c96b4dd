package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIDFor(t *testing.T) {
	assert.Equal(t, MatchIDFor("idea", "u1", "u2"), MatchIDFor("idea", "u2", "u1"))
	assert.NotEqual(t, MatchIDFor("idea", "u1", "u2"), MatchIDFor("other", "u1", "u2"))

	t.Run("separator inside ids", func(t *testing.T) {
		assert.NotEqual(t, MatchIDFor("a", "b|c", "d"), MatchIDFor("a", "b", "c|d"))
		assert.NotEqual(t, MatchIDFor("a|b", "c", "d"), MatchIDFor("a", "b|c", "d"))
		assert.NotEqual(t, MatchIDFor("1:a", "b", "c"), MatchIDFor("1", "a", "bc"))
	})
}

func TestRequestIDFor(t *testing.T) {
	assert.Equal(t, RequestIDFor("u1", "idea"), RequestIDFor("u1", "idea"))
	assert.NotEqual(t, RequestIDFor("u1", "idea"), RequestIDFor("idea", "u1"))
	assert.NotEqual(t, RequestIDFor("a|b", "c"), RequestIDFor("a", "b|c"))
}
