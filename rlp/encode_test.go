package rlp

import "testing"

func TestEncodeAddressNonceZeroNonce(t *testing.T) {
	sender := make([]byte, 20)
	for i := range sender {
		sender[i] = byte(i)
	}
	got := EncodeAddressNonce(sender, 0)
	if got[0] < 0xc0 {
		t.Fatalf("expected list prefix, got %x", got[0])
	}
	// payload is 21 bytes (0x94-prefixed 20-byte string) + 1 byte (0x80
	// for the zero nonce) = 22, so the list header is a short one.
	if got[0] != 0xc0+22 {
		t.Fatalf("got list header %x, want %x", got[0], 0xc0+22)
	}
	if got[1] != 0x80+20 {
		t.Fatalf("got string header %x, want %x", got[1], 0x80+20)
	}
	if got[len(got)-1] != 0x80 {
		t.Fatalf("expected zero nonce encoded as 0x80, got %x", got[len(got)-1])
	}
}

func TestEncodeAddressNonceSmallNonce(t *testing.T) {
	sender := make([]byte, 20)
	got := EncodeAddressNonce(sender, 15)
	if got[len(got)-1] != 0x0f {
		t.Fatalf("nonce 15 should encode as a single byte 0x0f, got %x", got[len(got)-1])
	}
}

func TestEncodeAddressNonceMultiByteNonce(t *testing.T) {
	sender := make([]byte, 20)
	got := EncodeAddressNonce(sender, 1024)
	tail := got[len(got)-3:]
	want := []byte{0x82, 0x04, 0x00}
	for i := range want {
		if tail[i] != want[i] {
			t.Fatalf("nonce 1024: got %x, want %x", tail, want)
		}
	}
}
