package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeyFromPath(t *testing.T) {
	tests := map[string]string{
		"projects/medeasy/agent/sessions/abc-123":                        "abc-123",
		"projects/medeasy/agent/environments/draft/users/u/sessions/xyz": "xyz",
		"  plain-key ": "plain-key",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SessionKeyFromPath(in), in)
	}
}

func TestNewUploadPath(t *testing.T) {
	a := NewUploadPath("s1")
	b := NewUploadPath("s1")
	assert.NotEqual(t, a, b)

	require.True(t, strings.HasPrefix(a, "s1/"))
	require.True(t, strings.HasSuffix(a, ".jpg"))
	_, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(a, "s1/"), ".jpg"))
	assert.NoError(t, err)
}
