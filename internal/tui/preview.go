package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ioutils "github.com/handiism/avatar-customizer/internal/io"
)

// previewSize is the preview edge in pixels. Two pixel rows share one
// terminal line.
const previewSize = 32

// renderPreview draws img as half-block characters, previewSize columns
// wide and previewSize/2 lines tall. Transparent pixels stay blank.
func renderPreview(svc *ioutils.ImageService, img image.Image) string {
	if img == nil {
		blank := strings.Repeat(" ", previewSize)
		lines := make([]string, previewSize/2)
		for i := range lines {
			lines[i] = blank
		}
		return strings.Join(lines, "\n")
	}

	small := svc.Scale(img, previewSize, previewSize, true)
	lines := make([]string, 0, previewSize/2)
	for y := 0; y < previewSize; y += 2 {
		var b strings.Builder
		for x := 0; x < previewSize; x++ {
			b.WriteString(cell(small.RGBAAt(x, y), small.RGBAAt(x, y+1)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func cell(top, bottom color.RGBA) string {
	topOn, bottomOn := visible(top), visible(bottom)
	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func visible(c color.RGBA) bool {
	return c.A >= 0x80
}

// hex returns the colour with alpha removed. RGBA is premultiplied, so
// the channels are divided back out.
func hex(c color.RGBA) lipgloss.Color {
	r, g, b := c.R, c.G, c.B
	if c.A != 0 && c.A != 0xff {
		r = uint8(uint16(r) * 0xff / uint16(c.A))
		g = uint8(uint16(g) * 0xff / uint16(c.A))
		b = uint8(uint16(b) * 0xff / uint16(c.A))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
