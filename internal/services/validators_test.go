package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "03001234567", "03001234567", true},
		{"hyphens", "0333-123-4567", "03331234567", true},
		{"spaces", " 0345 123 4567 ", "03451234567", true},
		{"tabs and hyphens", "0312\t-1234567", "03121234567", true},
		{"no-break space", "0300\u00a01234567", "03001234567", true},
		{"ideographic space", "0300\u30001234567", "03001234567", true},
		{"leading no-break space", "\u00a003001234567", "03001234567", true},
		{"ten digits", "0991234567", "", false},
		{"operator digit out of range", "03501234567", "", false},
		{"twelve digits", "033312345678", "", false},
		{"international prefix", "+923331234567", "", false},
		{"letters", "0333abc4567", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePhone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "03331234567", NormalizePhone("0333-123 4567"))
	assert.True(t, IsValidPhone(NormalizePhone("0300 1234567")))
	assert.False(t, IsValidPhone("0300 1234567"))
}

func TestParseName(t *testing.T) {
	t.Parallel()

	name, ok := ParseName("  Ali Khan ")
	assert.True(t, ok)
	assert.Equal(t, "Ali Khan", name)

	_, ok = ParseName("   ")
	assert.False(t, ok)
}

func TestParseOptional(t *testing.T) {
	t.Parallel()

	for _, skip := range []string{"skip", "SKIP", " Skip ", ""} {
		assert.Nil(t, ParseOptional(skip), "input %q", skip)
	}

	v := ParseOptional("not-an-email")
	require.NotNil(t, v)
	assert.Equal(t, "not-an-email", *v)

	v = ParseOptional("\u017fkip")
	require.NotNil(t, v, "long s is not an ASCII s")
	assert.Equal(t, "\u017fkip", *v)

	v = ParseOptional("Block 5, Clifton")
	require.NotNil(t, v)
	assert.Equal(t, "Block 5, Clifton", *v)
}
