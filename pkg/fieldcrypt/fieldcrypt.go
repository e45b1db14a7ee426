package fieldcrypt

import (
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

// Cipher provides reversible field-level encryption of individual metadata
// values. Keys in the field map stay in cleartext; only values are encrypted.
// The key is process-wide configuration loaded once at startup.
type Cipher struct {
	key *fernet.Key
}

// New creates a Cipher from a base64url-encoded 32-byte fernet key.
func New(encodedKey string) (*Cipher, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid fernet key: %w", err)
	}
	return &Cipher{key: key}, nil
}

// Encrypt encrypts a single value and returns the fernet token.
func (c *Cipher) Encrypt(value string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(value), c.key)
	if err != nil {
		return "", fmt.Errorf("encrypt value: %w", err)
	}
	return string(token), nil
}

// Decrypt reverses Encrypt. Tokens never expire, so no TTL is enforced.
func (c *Cipher) Decrypt(value string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(value), 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return "", &apperr.DecryptionError{}
	}
	return string(plaintext), nil
}

// DecryptOrPassthrough returns the decrypted value, or the input unchanged
// when it is not a valid token. Used when a field's encryption status is
// uncertain.
func (c *Cipher) DecryptOrPassthrough(value string) string {
	plaintext, err := c.Decrypt(value)
	if err != nil {
		return value
	}
	return plaintext
}
