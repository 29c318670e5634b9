package alphabet

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		c    byte
		want uint8
	}{
		{'A', A}, {'C', C}, {'G', G}, {'T', T},
		{'a', A}, {'c', C}, {'g', G}, {'t', T},
		{'N', N}, {'n', N}, {'R', N}, {'-', N}, {0, N}, {0xFF, N},
	}
	for _, tt := range tests {
		if got := Encode(tt.c); got != tt.want {
			t.Errorf("Encode(%q) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestEncode2Bit(t *testing.T) {
	for c := 0; c < 256; c++ {
		got := Encode2Bit(byte(c))
		if got > 3 {
			t.Fatalf("Encode2Bit(%d) = %d, out of 2-bit range", c, got)
		}
		if got != Encode(byte(c))%4 {
			t.Fatalf("Encode2Bit(%d) = %d, want Encode%%4 = %d", c, got, Encode(byte(c))%4)
		}
	}
	if Encode2Bit('N') != A {
		t.Errorf("ambiguous base should fold onto A, got %d", Encode2Bit('N'))
	}
}

func TestEqual(t *testing.T) {
	if !Equal('a', 'A') {
		t.Error("case should not matter")
	}
	if Equal('N', 'N') {
		t.Error("ambiguous bases must never match")
	}
	if Equal('A', 'C') {
		t.Error("A and C must not match")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(nil, []byte("acgtNx-T"))
	if string(got) != "ACGTNNNT" {
		t.Errorf("Normalize = %q, want %q", got, "ACGTNNNT")
	}

	buf := make([]byte, 0, 16)
	got = Normalize(buf, []byte("gg"))
	if string(got) != "GG" || &got[0] != &buf[:1][0] {
		t.Errorf("Normalize should reuse dst capacity, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	for _, c := range []byte("ACGTacgt") {
		if !IsValid(c) {
			t.Errorf("IsValid(%q) = false", c)
		}
	}
	for _, c := range []byte("Nn.RY") {
		if IsValid(c) {
			t.Errorf("IsValid(%q) = true", c)
		}
	}
}
