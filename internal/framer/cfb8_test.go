package framer

import (
	"bytes"
	"testing"
)

func TestCFB8StreamRoundTrip(t *testing.T) {
	secret := bytes.Repeat([]byte{0x07}, 16)
	plaintext := []byte("the quick brown fox jumps over the lazy dog, repeated for length")

	enc, err := newCFB8Stream(secret, true)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)

	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext must not equal plaintext")
	}

	dec, err := newCFB8Stream(secret, false)
	if err != nil {
		t.Fatal(err)
	}
	decoded := make([]byte, len(ciphertext))
	dec.XORKeyStream(decoded, ciphertext)

	if !bytes.Equal(decoded, plaintext) {
		t.Fatalf("decoded mismatch: got %q, want %q", decoded, plaintext)
	}
}

func TestCFB8StreamIsContinuousAcrossCalls(t *testing.T) {
	secret := bytes.Repeat([]byte{0x11}, 16)
	plaintext := []byte("0123456789abcdef0123456789abcdef")

	encWhole, err := newCFB8Stream(secret, true)
	if err != nil {
		t.Fatal(err)
	}
	whole := make([]byte, len(plaintext))
	encWhole.XORKeyStream(whole, plaintext)

	encSplit, err := newCFB8Stream(secret, true)
	if err != nil {
		t.Fatal(err)
	}
	split := make([]byte, len(plaintext))
	encSplit.XORKeyStream(split[:5], plaintext[:5])
	encSplit.XORKeyStream(split[5:], plaintext[5:])

	if !bytes.Equal(whole, split) {
		t.Fatal("splitting XORKeyStream calls must not change the resulting ciphertext")
	}
}

func TestNewCFB8StreamRejectsBadKeySize(t *testing.T) {
	_, err := newCFB8Stream([]byte{0x01, 0x02, 0x03}, true)
	if err == nil {
		t.Fatal("expected error for invalid key size, got nil")
	}
}
