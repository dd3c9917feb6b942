package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolations_Accepted(t *testing.T) {
	assert.Empty(t, Violations("TestPass123!"))
	assert.Empty(t, Violations(`Abcdefg1"`))
}

func TestViolations_WeakListsEveryRule(t *testing.T) {
	v := Violations("weak")
	assert.Len(t, v, 4)
	assert.Contains(t, v[0], "at least 8")
	assert.Contains(t, v[1], "uppercase")
	assert.Contains(t, v[2], "number")
	assert.Contains(t, v[3], "special")
}

func TestViolations_SymbolOutsideSetDoesNotCount(t *testing.T) {
	v := Violations("TestPass123~")
	assert.Equal(t, []string{"Password must contain at least one special character"}, v)
}

func TestViolations_NonASCIIUppercaseDoesNotCount(t *testing.T) {
	v := Violations("ÉÉÉÉÉÉ12!")
	assert.Equal(t, []string{"Password must contain at least one uppercase letter"}, v)
}

func TestViolations_TooLongForBcrypt(t *testing.T) {
	pw := "TestPass123!" + strings.Repeat("a", 70)
	assert.Equal(t, []string{"Password must be at most 72 bytes"}, Violations(pw))
	assert.Empty(t, Violations("TestPass123!"+strings.Repeat("a", 60)))
}
