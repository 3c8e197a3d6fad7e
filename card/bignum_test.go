package card

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBigNumRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		size int
	}{
		{name: "exact width", in: []byte{0x01, 0x02, 0x03}, size: 3},
		{name: "needs left pad", in: []byte{0xFF}, size: 4},
		{name: "leading zero preserved on reparse", in: []byte{0x00, 0xAB}, size: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bn := FromBEBytesSized(tt.in, tt.size)
			if bn.Size() != tt.size {
				t.Fatalf("Size() = %d, want %d", bn.Size(), tt.size)
			}
			got := bn.ToBEBytes()
			want := make([]byte, tt.size)
			copy(want[tt.size-len(tt.in):], tt.in)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ToBEBytes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromIntToBEBytesTruncatesFromLeft(t *testing.T) {
	v := new(big.Int).SetBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	bn := FromInt(v, 2)
	got := bn.ToBEBytes()
	want := []byte{0xCC, 0xDD}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToBEBytes() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBEBytesNaturalWidth(t *testing.T) {
	bn := FromBEBytes([]byte{0x01, 0x00})
	if bn.Int().Cmp(big.NewInt(256)) != 0 {
		t.Fatalf("Int() = %s, want 256", bn.Int())
	}
	if bn.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", bn.Size())
	}
}
