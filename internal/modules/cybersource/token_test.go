package cybersource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientToken(t *testing.T) {
	token := NewClientToken()
	assert.True(t, IsClientToken(token, true))
	assert.NotEqual(t, token, NewClientToken())
}

func TestIsClientToken(t *testing.T) {
	canonical := "6ba7b810-9dad-41d1-80b4-00c04fd430c8"

	assert.False(t, IsClientToken("", false))
	assert.False(t, IsClientToken("not-a-token", false))
	assert.True(t, IsClientToken(canonical, false))

	// Loose parsing accepts the dashless form, strict does not.
	dashless := strings.ReplaceAll(canonical, "-", "")
	assert.True(t, IsClientToken(dashless, false))
	assert.False(t, IsClientToken(dashless, true))

	// Strict requires v4.
	v1 := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	assert.True(t, IsClientToken(v1, false))
	assert.False(t, IsClientToken(v1, true))
}

func TestSearchable(t *testing.T) {
	assert.Equal(t,
		"6ba7b8109dad41d180b400c04fd430c8",
		Searchable("6ba7b810-9dad-41d1-80b4-00c04fd430c8"))
	assert.Equal(t, "abc", Searchable("abc"))
}
