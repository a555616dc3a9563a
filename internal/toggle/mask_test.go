package toggle

import "testing"

func TestPackMatchesCombinedMask(t *testing.T) {
	// all<<2 | selection<<1 | visible<<0
	tests := []struct {
		vec  []bool
		want Mask
	}{
		{[]bool{true, false, false}, 0b100},
		{[]bool{false, true, false}, 0b010},
		{[]bool{false, false, true}, 0b001},
		{[]bool{true, true, true}, 0b111},
		{[]bool{false, false, false}, 0},
	}
	for _, tt := range tests {
		if got := Pack(tt.vec); got != tt.want {
			t.Errorf("Pack(%v) = %s, want %s", tt.vec, got.Format(3), tt.want.Format(3))
		}
	}
}

func TestMaskIndex(t *testing.T) {
	tests := []struct {
		m      Mask
		n      int
		want   int
		wantOK bool
	}{
		{0b100, 3, 0, true},
		{0b010, 3, 1, true},
		{0b001, 3, 2, true},
		{0b110, 3, -1, false},
		{0, 3, -1, false},
		{0b1000, 3, -1, false},
		{1 << 63, 64, 0, true},
	}
	for _, tt := range tests {
		got, ok := tt.m.Index(tt.n)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Mask(%b).Index(%d) = %d, %v; want %d, %v", uint64(tt.m), tt.n, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMaskFormat(t *testing.T) {
	if got := Mask(0b010).Format(3); got != "0b010" {
		t.Errorf("Format = %q", got)
	}
	if got := Mask(1).Format(5); got != "0b00001" {
		t.Errorf("Format = %q", got)
	}
}
