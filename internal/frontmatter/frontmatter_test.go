package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ndate: 2025-01-05\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("date: 2025-01-05\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_EmptyFrontmatter(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestParse_PreservesOrder(t *testing.T) {
	fields, err := Parse([]byte("title: Hello\ndate: 2025-01-05\ntags: [go, blog]\n"))
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "title", fields[0].Key)
	require.Equal(t, "date", fields[1].Key)
	require.Equal(t, "2025-01-05", fields[1].Value)
	require.Equal(t, []any{"go", "blog"}, fields[2].Value)
}

func TestParse_KeepsScalarsAsWritten(t *testing.T) {
	fields, err := Parse([]byte("date: 2025-1-5\nupdated: 2025-01-05 10:00\nweight: 007\ndraft: true\nempty:\nkeys: [2025-01-05, 1.50]\n"))
	require.NoError(t, err)
	require.Len(t, fields, 6)
	require.Equal(t, "2025-1-5", fields[0].Value)
	require.Equal(t, "2025-01-05 10:00", fields[1].Value)
	require.Equal(t, "007", fields[2].Value)
	require.Equal(t, "true", fields[3].Value)
	require.Nil(t, fields[4].Value)
	require.Equal(t, []any{"2025-01-05", "1.50"}, fields[5].Value)
}

func TestParse_RejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	fields, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	require.Empty(t, fields)
}
