package common

import (
	"crypto/sha256"
	"errors"
	"strings"
	"testing"
)

func TestDigestMatchesSHA256(t *testing.T) {
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	got := Digest([]byte("abc"))
	if got.String() != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDigestConcatenatesParts(t *testing.T) {
	whole := Digest([]byte("participant swap 100 BCH"))
	split := Digest([]byte("participant "), []byte("swap 100 "), []byte("BCH"))
	if whole != split {
		t.Fatalf("digest of split parts differs from digest of whole input")
	}
	reversed := Digest([]byte("BCH"), []byte("swap 100 "), []byte("participant "))
	if whole == reversed {
		t.Fatalf("digest should depend on part order")
	}
}

func TestDigestNoInput(t *testing.T) {
	want := sha256.Sum256(nil)
	if Digest() != Hash(want) {
		t.Fatalf("empty digest mismatch")
	}
}

func TestParseHashRoundTrip(t *testing.T) {
	h := Digest([]byte("round trip"))
	for _, s := range []string{h.String(), "0x" + h.String(), strings.ToUpper(h.String()), "  " + h.String() + "\n"} {
		got, err := ParseHash(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if got != h {
			t.Fatalf("expected %s, got %s", h, got)
		}
	}
}

func TestParseHashMalformed(t *testing.T) {
	cases := []string{
		"",
		"0x",
		"zz",
		"abc",
		strings.Repeat("ab", 31),
		strings.Repeat("ab", 33),
		strings.Repeat("g", 64),
	}
	for _, s := range cases {
		_, err := ParseHash(s)
		if !errors.Is(err, ErrMalformedCommitment) {
			t.Fatalf("expected ErrMalformedCommitment for %q, got %v", s, err)
		}
	}
}

func TestZeroHash(t *testing.T) {
	if !ZeroHash.IsZero() {
		t.Fatal("ZeroHash should be zero")
	}
	if Digest([]byte{0}).IsZero() {
		t.Fatal("digest of a zero byte should not be the zero hash")
	}
	if len(ZeroHash.Bytes()) != HashLength {
		t.Fatalf("expected %d bytes", HashLength)
	}
}
