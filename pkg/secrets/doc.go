// Package secrets provides authenticated symmetric encryption for data at
// rest, such as serialized session payloads.
//
// Master keys are 32 random bytes. Each Cipher derives its own AES-256 key per
// purpose with HKDF-SHA256, so the same master key can safely serve several
// subsystems:
//
//	key, _ := secrets.GenerateKey()
//	c, err := secrets.NewCipher("sessions", key)
//	sealed, err := c.Encrypt([]byte("payload"))
//	plain, err := c.Decrypt(sealed)
//
// Pass older master keys after the current one to keep decrypting data
// written before a rotation. Tampered or truncated input fails with
// ErrDecryptionFailed or ErrInvalidCiphertext.
package secrets
