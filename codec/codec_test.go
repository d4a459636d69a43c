package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	sealed, err := Encrypt(key, []byte("endorse hybrid salon worth glory shuffle"))
	require.Nil(t, err)
	assert.NotEqual(t, "endorse hybrid salon worth glory shuffle", sealed)

	plain, err := Decrypt(key, sealed)
	require.Nil(t, err)
	assert.Equal(t, "endorse hybrid salon worth glory shuffle", string(plain))
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	_, err := Decrypt(key, "c2hvcnQ=")
	assert.NotNil(t, err)
}

func TestEncryptRejectsBadKey(t *testing.T) {
	_, err := Encrypt([]byte("too-short"), []byte("text"))
	assert.NotNil(t, err)
}
