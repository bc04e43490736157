package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dzungnguyen14/aiowallet-app/internal/format"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, format.ValidEmail("user@example.com"))
	assert.True(t, format.ValidEmail("a.b+c@sub.domain.io"))
	assert.False(t, format.ValidEmail("not-an-email"))
	assert.False(t, format.ValidEmail("spaces in@example.com"))
	assert.False(t, format.ValidEmail("user@nodot"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, format.ValidPhone("+14155551234"))
	assert.True(t, format.ValidPhone("+1 415-555-1234"))
	assert.False(t, format.ValidPhone("0"))
	assert.False(t, format.ValidPhone("abc"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j******e@example.com", format.MaskEmail("johndoee@example.com"))
	// Too short to mask meaningfully.
	assert.Equal(t, "jd@example.com", format.MaskEmail("jd@example.com"))
	assert.Equal(t, "no-at-sign", format.MaskEmail("no-at-sign"))
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "4242 **** **** 4242", format.MaskCard("4242 4242 4242 4242"))
	assert.Equal(t, "1234567", format.MaskCard("1234567"))
}

func TestMaskID(t *testing.T) {
	assert.Equal(t, "1111...1111", format.MaskID("11111111-1111-1111-1111-111111111111"))
	assert.Equal(t, "short", format.MaskID("short"))
}

func TestNewReference(t *testing.T) {
	ref := format.NewReference()
	assert.True(t, strings.HasPrefix(ref, "TXN-"), "reference %q should carry the TXN- prefix", ref)
	assert.Len(t, ref, len("TXN-")+8)
	assert.NotEqual(t, ref, format.NewReference())
}
