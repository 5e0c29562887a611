package scicalc

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var (
	colorBG       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorFG       = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim      = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	colorHeaderBG = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xff}
	colorPanelBG  = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xff}
	colorSelBG    = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorSelFG    = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	colorMod      = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}
	colorError    = color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
)

var (
	fontText  tinyfont.Fonter = &freemono.Regular9pt7b
	fontBig   tinyfont.Fonter = &freemono.Bold12pt7b
	fontHints tinyfont.Fonter = &tinyfont.TomThumb
)

const (
	margin   = 6
	headerH  = 22
	labelY   = 58
	displayY = 96
	drawerY  = 116
	rowH     = 18
)

const hints = "s c t l g q r ^ ( ) | i=INV h=HYP d=DRG | p=pi a=Ans | TAB history"

// The fonts only carry ASCII, so display glyphs are spelled out.
var asciiText = strings.NewReplacer("π", "pi", "×", "*", "÷", "/", "−", "-", "√", "sqrt")

type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	h := d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func textWidth(f tinyfont.Fonter, s string) int {
	_, w := tinyfont.LineWidth(f, s)
	return int(w)
}

// fitTail drops leading runes until s fits in max pixels, so the newest input stays visible.
func fitTail(f tinyfont.Fonter, s string, max int) string {
	for s != "" && textWidth(f, s) > max {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}

func writeRight(d *fbDisplay, f tinyfont.Fonter, right, y int, c color.RGBA, s string) {
	tinyfont.WriteLine(d, f, int16(right-textWidth(f, s)), int16(y), s, c)
}

func (t *Task) render() {
	if t.d == nil {
		return
	}
	s := t.Snapshot()
	sw, sh := t.d.Size()
	w, h := int(sw), int(sh)
	if w <= 0 || h <= 0 {
		return
	}
	inner := w - 2*margin

	t.d.FillRectangle(0, 0, sw, sh, colorBG)
	t.d.FillRectangle(0, 0, sw, headerH, colorHeaderBG)
	tinyfont.WriteLine(t.d, fontText, margin, 16, "CALC", colorFG)
	writeRight(t.d, fontText, w-margin, 16, colorMod, indicators(s.Mode))

	labelColor := colorDim
	if s.Label == calc.ErrorLabel {
		labelColor = colorError
	}
	writeRight(t.d, fontText, w-margin, labelY, labelColor, fitTail(fontText, asciiText.Replace(s.Label), inner))
	writeRight(t.d, fontBig, w-margin, displayY, colorFG, fitTail(fontBig, asciiText.Replace(s.Display), inner))

	if s.Drawer {
		t.renderDrawer(s, w, h)
	}

	tinyfont.WriteLine(t.d, fontHints, margin, int16(h-4), hints, colorDim)
	t.d.Display()
}

func (t *Task) renderDrawer(s Snapshot, w, h int) {
	bottom := h - 12
	t.d.FillRectangle(0, drawerY, int16(w), int16(bottom-drawerY), colorPanelBG)
	tinyfont.WriteLine(t.d, fontHints, margin, drawerY+8, "HISTORY  up/down  ENTER replay  x clear  TAB close", colorDim)

	y := drawerY + 12
	if len(s.History) == 0 {
		tinyfont.WriteLine(t.d, fontText, margin, int16(y+rowH-5), "(no history)", colorDim)
		return
	}
	rows := (bottom - y) / rowH
	first := 0
	if s.Selected >= rows {
		first = s.Selected - rows + 1
	}
	for i := first; i < len(s.History) && i-first < rows; i++ {
		e := s.History[i]
		fg := colorFG
		if i == s.Selected {
			t.d.FillRectangle(0, int16(y), int16(w), rowH, colorSelBG)
			fg = colorSelFG
		}
		line := asciiText.Replace(e.Expression + " = " + e.Result)
		tinyfont.WriteLine(t.d, fontText, margin, int16(y+rowH-5), fitTail(fontText, line, w-2*margin), fg)
		y += rowH
	}
}
