package utils

import (
	"bts/src/config"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NewOrderCode builds an order code from the creation instant, to
// millisecond precision. Codes sort chronologically.
func NewOrderCode(t time.Time) string {
	return fmt.Sprintf("ORD%s%03d", t.Format(config.ORDER_CODE_TIME_FORMAT), t.Nanosecond()/1e6)
}

// NewProviderRef correlates a provider session with an order. The provider
// echoes it back on the callback.
func NewProviderRef(provider string, orderID uint, t time.Time) string {
	return fmt.Sprintf("%s-%s%03d-%d", provider, t.Format(config.ORDER_CODE_TIME_FORMAT), t.Nanosecond()/1e6, orderID)
}

func NewTicketCode() string {
	return fmt.Sprintf("TCK-%s", uuid.NewString())
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsLegacyHash reports whether the stored hash predates bcrypt. Legacy
// hashes are unsalted hex-encoded SHA-256 digests.
func IsLegacyHash(hash string) bool {
	if len(hash) != config.LEGACY_SHA256_HEX {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// VerifyPassword checks password against hash, accepting both bcrypt and
// legacy digests. The second result is true when the hash is legacy and
// should be upgraded.
func VerifyPassword(hash, password string) (ok bool, legacy bool) {
	if IsLegacyHash(hash) {
		sum := sha256.Sum256([]byte(password))
		match := subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1
		return match, true
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil, false
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
