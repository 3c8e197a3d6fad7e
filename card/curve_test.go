package card

import "testing"

func TestScalarSizeForFileSize(t *testing.T) {
	tests := []struct {
		fileType byte
		bits     int
		want     int
		wantErr  bool
	}{
		{FileTypeECNIST, 192, 24, false},
		{FileTypeECNIST, 256, 32, false},
		{FileTypeECNIST, 384, 48, false},
		{FileTypeECNIST, 521, 66, false},
		{FileTypeECNIST, 200, 0, true},
		{FileTypeECSecp256k, 256, 32, false},
		{FileTypeECSecp256k, 192, 0, true},
	}
	for _, tt := range tests {
		got, err := scalarSizeForFileSize(tt.fileType, tt.bits)
		if tt.wantErr {
			if err == nil {
				t.Errorf("scalarSizeForFileSize(%#02x, %d) expected error", tt.fileType, tt.bits)
			}
			continue
		}
		if err != nil {
			t.Errorf("scalarSizeForFileSize(%#02x, %d) unexpected error: %v", tt.fileType, tt.bits, err)
			continue
		}
		if got != tt.want {
			t.Errorf("scalarSizeForFileSize(%#02x, %d) = %d, want %d", tt.fileType, tt.bits, got, tt.want)
		}
	}
}

func TestSelectCurve(t *testing.T) {
	tests := []struct {
		name       string
		fileType   byte
		scalarSize int
		wantName   string
		wantErr    bool
	}{
		{"secp256k1", FileTypeECSecp256k, 32, "secp256k1", false},
		{"secp256k1 wrong scalar", FileTypeECSecp256k, 24, "", true},
		{"p192", FileTypeECNIST, 24, "P-192", false},
		{"p256", FileTypeECNIST, 32, "P-256", false},
		{"p384", FileTypeECNIST, 48, "P-384", false},
		{"p521", FileTypeECNIST, 66, "P-521", false},
		{"unsupported", FileTypeECNIST, 40, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := selectCurve(tt.fileType, tt.scalarSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("selectCurve(%#02x, %d) expected error", tt.fileType, tt.scalarSize)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectCurve(%#02x, %d) unexpected error: %v", tt.fileType, tt.scalarSize, err)
			}
			if curve.Params().Name != tt.wantName {
				t.Fatalf("curve name = %q, want %q", curve.Params().Name, tt.wantName)
			}
		})
	}
}

func TestCurveA(t *testing.T) {
	if curveA("secp256k1") != "a=0" {
		t.Errorf("curveA(secp256k1) should be a=0")
	}
	if curveA("P-256") != "a=-3" {
		t.Errorf("curveA(P-256) should be a=-3")
	}
}
