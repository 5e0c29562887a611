package hal

import "testing"

func TestRGB565RoundTripPrimaries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0, 0, 0, 0x0000},
		{0xFF, 0xFF, 0xFF, 0xFFFF},
		{0xFF, 0, 0, 0xF800},
		{0, 0xFF, 0, 0x07E0},
		{0, 0, 0xFF, 0x001F},
	}
	for _, tc := range cases {
		got := rgb565(tc.r, tc.g, tc.b)
		if got != tc.want {
			t.Fatalf("rgb565(%d,%d,%d)=%#04x, want %#04x", tc.r, tc.g, tc.b, got, tc.want)
		}
		r, g, b := rgb888From565(got)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Fatalf("rgb888From565(%#04x)=(%d,%d,%d), want (%d,%d,%d)", got, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}

func TestExpandRGB565(t *testing.T) {
	src := []byte{0x00, 0xF8, 0x1F, 0x00}
	dst := make([]byte, 8)
	expandRGB565(dst, src)
	want := []byte{0xFF, 0, 0, 0xFF, 0, 0, 0xFF, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst=%v, want %v", dst, want)
		}
	}
}
