package cookiebridge

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptCookieValue(t *testing.T) {
	key := deriveSafeStorageKey("hunter2")

	enc, err := encryptCookieValue("hello world", key, "example.com", 20)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(enc, []byte("v10")) {
		t.Fatalf("missing version prefix: %x", enc)
	}

	got, ok := decryptCookieValue(enc, [][]byte{key}, 20)
	if !ok {
		t.Fatalf("decrypt failed")
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestEncryptDecrypt_HashPrefixMetaVersion(t *testing.T) {
	key := defaultSafeStorageKey()

	enc, err := encryptCookieValue("v", key, "example.com", 24)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := decryptCookieValue(enc, [][]byte{key}, 24)
	if !ok || got != "v" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestDecryptCookieValue_WrongKey(t *testing.T) {
	enc, err := encryptCookieValue("secret", deriveSafeStorageKey("right"), "example.com", 20)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := decryptCookieValue(enc, [][]byte{deriveSafeStorageKey("wrong")}, 20); ok {
		t.Fatalf("wrong key decrypted to %q", got)
	}
}

func TestDecryptCookieValue_NoVersionPrefix(t *testing.T) {
	if _, ok := decryptCookieValue([]byte("plaintext"), [][]byte{defaultSafeStorageKey()}, 20); ok {
		t.Fatalf("unexpected success")
	}
	if _, ok := decryptCookieValue(nil, [][]byte{defaultSafeStorageKey()}, 20); ok {
		t.Fatalf("unexpected success for empty input")
	}
}

func TestPKCS7Padding(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17} {
		in := bytes.Repeat([]byte{'x'}, n)
		padded := addPKCS7Padding(in)
		if len(padded)%16 != 0 {
			t.Fatalf("len %d not block aligned", len(padded))
		}
		out, err := removePKCS7Padding(padded)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip failed for n=%d", n)
		}
	}

	if _, err := removePKCS7Padding([]byte{1, 2, 3}); err == nil {
		t.Fatalf("invalid padding accepted")
	}
}
