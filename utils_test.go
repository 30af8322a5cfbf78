package wyvern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x1111111111111111111111111111111111111111 ")
	require.NoError(t, err)
	assert.Equal(t, testSeller, addr)

	for _, s := range []string{"", "0x1234", "1111111111111111111111111111111111111111", "0xzz11111111111111111111111111111111111111"} {
		_, err := ParseAddress(s)
		assert.ErrorIs(t, err, ErrInvalidParam, s)
	}
}

func TestParseTokenID(t *testing.T) {
	id, err := ParseTokenID("1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", id.String())

	id, err = ParseTokenID("0xff")
	require.NoError(t, err)
	assert.Equal(t, "255", id.String())

	for _, s := range []string{"", "-1", "1.5", "abc"} {
		_, err := ParseTokenID(s)
		assert.ErrorIs(t, err, ErrInvalidParam, s)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud")
	assert.ErrorIs(t, err, ErrInvalidParam)
}
