package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// DefaultPurpose is the HKDF info string used when none is given.
const DefaultPurpose = "sessionkit-secrets-v1"

// Cipher is an AES-256-GCM codec with keys derived from one or more master
// keys. The first key encrypts; every key is tried on decryption so master
// keys can be rotated without losing existing data.
//
// Ciphertext layout: nonce | sealed data | tag.
type Cipher struct {
	aeads []cipher.AEAD
}

// NewCipher derives purpose-bound keys from the given master keys.
func NewCipher(purpose string, masterKeys ...[]byte) (*Cipher, error) {
	if len(masterKeys) == 0 {
		return nil, ErrNoKeys
	}
	if purpose == "" {
		purpose = DefaultPurpose
	}

	c := &Cipher{aeads: make([]cipher.AEAD, 0, len(masterKeys))}
	for _, master := range masterKeys {
		if err := ValidateKey(master); err != nil {
			return nil, err
		}
		key, err := deriveKey(master, purpose)
		if err != nil {
			return nil, err
		}
		block, err := aes.NewCipher(key)
		clearBytes(key)
		if err != nil {
			return nil, errors.Join(ErrKeyDerivationFailed, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, errors.Join(ErrKeyDerivationFailed, err)
		}
		c.aeads = append(c.aeads, aead)
	}
	return c, nil
}

// Encrypt seals plaintext with the primary key.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	aead := c.aeads[0]
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt with any configured key.
// Input shorter than nonce plus tag fails with ErrInvalidCiphertext.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	var lastErr error
	for _, aead := range c.aeads {
		ns := aead.NonceSize()
		if len(ciphertext) < ns+aead.Overhead() {
			return nil, ErrInvalidCiphertext
		}
		plaintext, err := aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
		if err == nil {
			return plaintext, nil
		}
		lastErr = err
	}
	return nil, errors.Join(ErrDecryptionFailed, lastErr)
}

// EncryptString encrypts s and returns url-safe base64 without padding.
func (c *Cipher) EncryptString(s string) (string, error) {
	b, err := c.Encrypt([]byte(s))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecryptString reverses EncryptString.
func (c *Cipher) DecryptString(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	plaintext, err := c.Decrypt(b)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
