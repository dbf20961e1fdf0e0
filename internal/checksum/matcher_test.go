package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHash_Deterministic(t *testing.T) {
	a := FileHash([]byte("planilha"))
	b := FileHash([]byte("planilha"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, FileHash([]byte("outra planilha")))
}

func TestMatcher(t *testing.T) {
	data := []byte("conteudo")
	m := NewMatcher(FileHash(data))

	ok, err := m.Match(data)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Match([]byte("diferente"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewMatcher("").Match(data)
	assert.Error(t, err)
}
