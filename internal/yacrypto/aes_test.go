package yacrypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/yacrypto"
)

func TestAES_EncryptDecrypt_RoundTrips(t *testing.T) {
	a := yacrypto.New("a secret key")

	plaintext := []byte("a.jwt.token")

	ciphertext, err := a.Encrypt(plaintext)
	require.Nil(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := a.Decrypt(ciphertext)
	require.Nil(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAES_Encrypt_IsRandomizedPerCall(t *testing.T) {
	a := yacrypto.New("a secret key")

	first, err := a.Encrypt([]byte("same input"))
	require.Nil(t, err)

	second, err := a.Encrypt([]byte("same input"))
	require.Nil(t, err)

	assert.NotEqual(t, first, second, "a random IV should make repeated encryptions differ")
}

func TestAES_Decrypt_RejectsTooShortInput(t *testing.T) {
	a := yacrypto.New("a secret key")

	_, err := a.Decrypt([]byte("short"))
	assert.NotNil(t, err)
}

func TestAES_Decrypt_WrongKeyProducesGarbage(t *testing.T) {
	sender := yacrypto.New("key one")
	receiver := yacrypto.New("key two")

	ciphertext, err := sender.Encrypt([]byte("a.jwt.token"))
	require.Nil(t, err)

	decrypted, err := receiver.Decrypt(ciphertext)
	require.Nil(t, err, "CTR mode decrypts without error, just to the wrong plaintext")
	assert.NotEqual(t, []byte("a.jwt.token"), decrypted)
}
