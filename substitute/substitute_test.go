package substitute_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/substitute"
)

func TestSubstituteReplacesKnownVariables(t *testing.T) {
	out, err := substitute.Substitute("{{host}}/users/{{id}}", map[string]string{
		"host": "https://api.example.com",
		"id":   "42",
	})
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/users/42", out)
}

func TestSubstituteLeavesUnknownPlaceholderUnresolved(t *testing.T) {
	_, err := substitute.Substitute("{{host}}/{{missing}}", map[string]string{
		"host": "https://api.example.com",
	})
	require.ErrorIs(t, err, substitute.ErrUnresolved)
}

func TestSubstituteNoPlaceholders(t *testing.T) {
	out, err := substitute.Substitute("https://api.example.com/static", nil)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/static", out)
}

func TestSubstituteRejectsBenignDoubleBraces(t *testing.T) {
	// The unresolved check is a bare substring test, not placeholder-aware,
	// so literal "{{"/"}}" in a body that isn't a variable reference is
	// still rejected. This is the preserved imprecision, not a bug fix.
	_, err := substitute.Substitute(`{"template": "{{ not a var }}"}`, nil)
	require.ErrorIs(t, err, substitute.ErrUnresolved)
}
