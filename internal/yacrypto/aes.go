// Package yacrypto provides the AES-CTR helper the teacher's Telegram
// session storage used to protect data at rest, stripped of the gotd/td
// session-compatibility layer that had no place in this domain: only the
// generic encrypt/decrypt/key-derivation pieces survive, now used to wrap
// the short-lived token cookie instead of a bot session blob.
package yacrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"net/http"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// AES encrypts and decrypts byte slices with AES-256 in CTR mode.
type AES struct {
	key []byte
}

// New derives a 256-bit key from secret and returns an AES instance ready to
// encrypt or decrypt with it.
func New(secret string) AES {
	return AES{key: DeriveKey(secret)}
}

// DeriveKey hashes secret with SHA-256 to produce a key suitable for AES-256.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))

	return sum[:]
}

// Encrypt prepends a random IV to the ciphertext produced by XOR-ing text
// against the CTR keystream.
func (a *AES) Encrypt(text []byte) ([]byte, yaerrors.Error) {
	block, err := aes.NewCipher(a.key)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "yacrypto: new cipher")
	}

	cipherText := make([]byte, aes.BlockSize+len(text))

	iv := cipherText[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "yacrypto: read iv")
	}

	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(cipherText[aes.BlockSize:], text)

	return cipherText, nil
}

// Decrypt reverses Encrypt, reading the IV back out of the first block.
func (a *AES) Decrypt(text []byte) ([]byte, yaerrors.Error) {
	if len(text) < aes.BlockSize {
		return nil, yaerrors.FromString(http.StatusInternalServerError, "yacrypto: ciphertext too short")
	}

	block, err := aes.NewCipher(a.key)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "yacrypto: new cipher")
	}

	iv := text[:aes.BlockSize]
	out := make([]byte, len(text)-aes.BlockSize)

	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out, text[aes.BlockSize:])

	return out, nil
}
