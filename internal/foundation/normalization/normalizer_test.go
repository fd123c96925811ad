package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]format{"text": formatText, "JSON": formatJSON}, formatText)

	tests := []struct {
		input string
		want  format
	}{
		{"text", formatText},
		{"  Json ", formatJSON},
		{"yaml", formatText},
		{"", formatText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.input), tt.input)
	}

	_, err := n.NormalizeWithError("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[json text]")
	assert.Equal(t, []string{"json", "text"}, n.ValidKeys())
}
