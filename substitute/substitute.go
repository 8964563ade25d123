// Package substitute replaces {{name}} placeholders in strings with
// environment-bound values. Grounded on original_source/src/executor.rs's
// substitute_variables: literal, non-escaping, non-nesting replacement,
// followed by a conservative substring check for leftover "{{"/"}}".
package substitute

import (
	"errors"
	"strings"
)

// ErrUnresolved is returned when a "{{" / "}}" pair survives substitution.
// The check is a substring test, not a placeholder-aware scan: benign
// double-braces in bodies may be rejected. This imprecision is preserved
// deliberately (spec Design Notes §9) rather than fixed.
var ErrUnresolved = errors.New("Unresolved variables found")

// Substitute replaces every {{k}} occurrence (k present in vars) in t with
// its value, then fails if both "{{" and "}}" remain in the result.
func Substitute(t string, vars map[string]string) (string, error) {
	result := t
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}
	if strings.Contains(result, "{{") && strings.Contains(result, "}}") {
		return "", ErrUnresolved
	}
	return result, nil
}
