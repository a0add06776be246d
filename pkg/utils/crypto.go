package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// sealedPrefix marks values written by TokenCipher.Seal with a key set.
const sealedPrefix = "enc:v1:"

func Encrypt(plaintext, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	// nonce || ciphertext
	sealed := aesGCM.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts the base64-encoded ciphertext using AES-GCM with the provided key.
func Decrypt(encryptedData string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return string(plaintext), nil
}

// TokenCipher encrypts OAuth credentials at rest. With an empty key it is a
// passthrough, which keeps local development databases readable.
type TokenCipher struct {
	key []byte
}

func NewTokenCipher(key string) *TokenCipher {
	if key == "" {
		return &TokenCipher{}
	}
	return &TokenCipher{key: []byte(key)}
}

func (c *TokenCipher) Enabled() bool {
	return len(c.key) > 0
}

func (c *TokenCipher) Seal(plaintext string) (string, error) {
	if !c.Enabled() || plaintext == "" {
		return plaintext, nil
	}
	sealed, err := Encrypt([]byte(plaintext), c.key)
	if err != nil {
		return "", err
	}
	return sealedPrefix + sealed, nil
}

// Open reverses Seal. Values stored before encryption was enabled carry no
// prefix and are returned unchanged.
func (c *TokenCipher) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if !c.Enabled() {
		return "", errors.New("encrypted token found but no encryption key is configured")
	}
	return Decrypt(strings.TrimPrefix(stored, sealedPrefix), c.key)
}
