package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFileContent(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name\r\n1,AGUA\u00a0POTABLE\r\n")...)

	out, err := CleanFileContent(in, "cats.csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,AGUA POTABLE\n", out)
}

func TestCleanFileContent_InvalidUTF8(t *testing.T) {
	out, err := CleanFileContent([]byte("agua \xff potable"), "cats.yaml")
	require.NoError(t, err)
	assert.Equal(t, "agua � potable", out)
}

func TestCleanFileContent_Binary(t *testing.T) {
	_, err := CleanFileContent([]byte("PK\x03\x04\x00\x00"), "cats.csv")
	assert.ErrorContains(t, err, "binary")
}

func TestIsLikelyBinary(t *testing.T) {
	assert.False(t, IsLikelyBinary(nil))
	assert.False(t, IsLikelyBinary([]byte("categories:\n")))
	assert.True(t, IsLikelyBinary([]byte{'a', 0, 'b'}))
}
