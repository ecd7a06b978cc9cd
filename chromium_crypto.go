package cookiebridge

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1" //nolint:gosec // Chromium PBKDF2 uses SHA1 ("saltysalt", sha1) for cookie value encryption.
	"crypto/sha256"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	safeStorageSalt       = "saltysalt"
	safeStorageIV         = "                " // 16 spaces
	safeStorageIterations = 1
	safeStorageKeyLen     = 16

	// Chromium meta versions >= 24 prefix the plaintext with SHA256(host_key).
	hashPrefixMetaVersion = 24
)

// deriveSafeStorageKey derives the AES-CBC key Chromium uses for v10/v11
// cookie values on Linux.
func deriveSafeStorageKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte(safeStorageSalt), safeStorageIterations, safeStorageKeyLen, sha1.New)
}

// defaultSafeStorageKey is the key for v10 values ("peanuts").
func defaultSafeStorageKey() []byte {
	return deriveSafeStorageKey("peanuts")
}

// encryptCookieValue produces a v10 encrypted_value for plain, prefixing
// SHA256(hostKey) when the DB's meta version requires it.
func encryptCookieValue(plain string, key []byte, hostKey string, metaVersion int64) ([]byte, error) {
	payload := []byte(plain)
	if metaVersion >= hashPrefixMetaVersion {
		sum := sha256.Sum256([]byte(hostKey))
		payload = append(sum[:], payload...)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := addPKCS7Padding(payload)
	out := make([]byte, len(padded))
	cbc := cipher.NewCBCEncrypter(block, []byte(safeStorageIV))
	cbc.CryptBlocks(out, padded)
	return append([]byte("v10"), out...), nil
}

// decryptCookieValue tries each candidate key against a v10/v11 value and
// returns the decoded plaintext.
func decryptCookieValue(encrypted []byte, keys [][]byte, metaVersion int64) (string, bool) {
	if !hasVersionPrefix(encrypted) {
		return "", false
	}
	for _, key := range keys {
		if len(key) == 0 {
			continue
		}
		plain, err := decryptAESCBC(encrypted, key, metaVersion)
		if err != nil {
			continue
		}
		if decoded, ok := decodeCookieValue(plain); ok {
			return decoded, true
		}
	}
	return "", false
}

func decryptAESCBC(encrypted []byte, key []byte, metaVersion int64) ([]byte, error) {
	if len(encrypted) <= 3 {
		return nil, fmt.Errorf("encrypted value too short (%d<=3)", len(encrypted))
	}

	ciphertext := encrypted[3:]
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("cipher input not full blocks")
	}

	out := make([]byte, len(ciphertext))
	cbc := cipher.NewCBCDecrypter(block, []byte(safeStorageIV))
	cbc.CryptBlocks(out, ciphertext)

	out, err = removePKCS7Padding(out)
	if err != nil {
		return nil, err
	}
	if metaVersion >= hashPrefixMetaVersion && len(out) >= 32 {
		out = out[32:]
	}
	return out, nil
}

func hasVersionPrefix(b []byte) bool {
	if len(b) < 3 {
		return false
	}
	if b[0] != 'v' {
		return false
	}
	return isDigit(b[1]) && isDigit(b[2])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func addPKCS7Padding(b []byte) []byte {
	paddingLen := aes.BlockSize - (len(b) % aes.BlockSize)
	if paddingLen == 0 {
		paddingLen = aes.BlockSize
	}
	out := make([]byte, 0, len(b)+paddingLen)
	out = append(out, b...)
	for i := 0; i < paddingLen; i++ {
		out = append(out, byte(paddingLen))
	}
	return out
}

func removePKCS7Padding(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return b, nil
	}
	paddingLen := int(b[len(b)-1])
	if paddingLen <= 0 || paddingLen > aes.BlockSize || paddingLen > len(b) {
		return nil, fmt.Errorf("invalid padding length: %d", paddingLen)
	}
	for _, p := range b[len(b)-paddingLen:] {
		if int(p) != paddingLen {
			return nil, errors.New("invalid padding bytes")
		}
	}
	return b[:len(b)-paddingLen], nil
}

func decodeCookieValue(b []byte) (string, bool) {
	b = stripLeadingControlBytes(b)
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func stripLeadingControlBytes(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < 0x20 {
		i++
	}
	return bytes.Clone(b[i:])
}
