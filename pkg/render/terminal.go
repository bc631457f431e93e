package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows through the upper
// half block: the foreground carries the top pixel, the background the
// bottom one.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, topY)),
					Bg: cellColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a framebuffer pixel to a terminal cell color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil // transparent = terminal default
	}
	return c.Std()
}

// TerminalRenderer presents a framebuffer on an ultraviolet terminal. The
// framebuffer runs at double the terminal's row count for half-block
// rendering.
type TerminalRenderer struct {
	term *uv.Terminal
	cols int
	rows int
}

// NewTerminalRenderer creates a presenter for a terminal of the given size
// in cells.
func NewTerminalRenderer(term *uv.Terminal, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{term: term, cols: cols, rows: rows}
}

// FramebufferSize returns the pixel dimensions a framebuffer must have to
// fill the terminal.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render blits the framebuffer into the terminal's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.term, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush displays the pending cell buffer.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}
