package card

import "testing"

func TestParseAPDU(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    APDU
		wantErr bool
	}{
		{
			name: "case 1 no data no le",
			raw:  []byte{0x00, 0xCA, 0x01, 0xA0},
			want: APDU{Cla: 0x00, Ins: 0xCA, P1: 0x01, P2: 0xA0},
		},
		{
			name: "case 2 le only",
			raw:  []byte{0x00, 0xCA, 0x01, 0xA0, 0x00},
			want: APDU{Cla: 0x00, Ins: 0xCA, P1: 0x01, P2: 0xA0},
		},
		{
			name: "case 3 with data",
			raw:  []byte{0x00, 0x22, 0x41, 0xB6, 0x02, 0xAB, 0xCD},
			want: APDU{Cla: 0x00, Ins: 0x22, P1: 0x41, P2: 0xB6, Data: []byte{0xAB, 0xCD}},
		},
		{
			name:    "too short",
			raw:     []byte{0x00, 0x22, 0x41},
			wantErr: true,
		},
		{
			name:    "lc exceeds remaining bytes",
			raw:     []byte{0x00, 0x22, 0x41, 0xB6, 0x05, 0xAB},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAPDU(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAPDU(%x) = %+v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAPDU(%x) unexpected error: %v", tt.raw, err)
			}
			if got.Cla != tt.want.Cla || got.Ins != tt.want.Ins || got.P1 != tt.want.P1 || got.P2 != tt.want.P2 {
				t.Fatalf("ParseAPDU(%x) = %+v, want %+v", tt.raw, got, tt.want)
			}
			if string(got.Data) != string(tt.want.Data) {
				t.Fatalf("ParseAPDU(%x) Data = %x, want %x", tt.raw, got.Data, tt.want.Data)
			}
		})
	}
}

func TestResponseBytes(t *testing.T) {
	r := Response{SW: SWOK, Data: []byte{0x01, 0x02}}
	got := r.Bytes()
	want := []byte{0x01, 0x02, 0x90, 0x00}
	if string(got) != string(want) {
		t.Fatalf("Bytes() = %x, want %x", got, want)
	}
}

func TestResponseBytesNoData(t *testing.T) {
	r := Response{SW: SWFileNotFound}
	got := r.Bytes()
	want := []byte{0x6A, 0x82}
	if string(got) != string(want) {
		t.Fatalf("Bytes() = %x, want %x", got, want)
	}
}
