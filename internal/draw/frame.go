package draw

import (
	"io"
	"strconv"
	"unicode/utf8"
)

// Frame is a grid of glyphs. Render sends only the rows that changed since
// the previous render.
type Frame struct {
	cols, rows int
	cells      []rune
	prev       []rune
	offCol     int
	offRow     int
	force      bool
	out        []byte // Reused render buffer
}

// NewFrame creates a blank frame.
func NewFrame(cols, rows int) *Frame {
	f := &Frame{}
	f.Resize(cols, rows)
	return f
}

// Resize changes the frame size. Contents are cleared and the next render
// repaints everything.
func (f *Frame) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == f.cols && rows == f.rows {
		return
	}
	f.cols, f.rows = cols, rows
	f.cells = make([]rune, cols*rows)
	f.prev = make([]rune, cols*rows)
	f.Clear()
	f.force = true
}

// SetOffset places the frame's top-left corner at 0-based terminal (col, row).
func (f *Frame) SetOffset(col, row int) {
	if col != f.offCol || row != f.offRow {
		f.offCol, f.offRow = col, row
		f.force = true
	}
}

// ForceRedraw makes the next render repaint every row.
func (f *Frame) ForceRedraw() {
	f.force = true
}

// Cols returns the frame width.
func (f *Frame) Cols() int { return f.cols }

// Rows returns the frame height.
func (f *Frame) Rows() int { return f.rows }

// Clear fills the frame with spaces.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = ' '
	}
}

// Set puts r at 0-based (col, row). Out of range positions are ignored.
func (f *Frame) Set(col, row int, r rune) {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return
	}
	f.cells[row*f.cols+col] = r
}

// At returns the glyph at (col, row), or 0 when out of range.
func (f *Frame) At(col, row int) rune {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return 0
	}
	return f.cells[row*f.cols+col]
}

// Text writes s starting at (col, row), clipped to the frame.
func (f *Frame) Text(col, row int, s string) {
	for _, r := range s {
		f.Set(col, row, r)
		col++
	}
}

// TextCentered writes s horizontally centered on row.
func (f *Frame) TextCentered(row int, s string) {
	f.Text((f.cols-utf8.RuneCountInString(s))/2, row, s)
}

// TextRight writes s so it ends at the last column of row, less pad.
func (f *Frame) TextRight(row, pad int, s string) {
	f.Text(f.cols-pad-utf8.RuneCountInString(s), row, s)
}

// Render writes the changed rows to w.
func (f *Frame) Render(w io.Writer) error {
	f.out = f.out[:0]
	for row := range f.rows {
		start := row * f.cols
		line := f.cells[start : start+f.cols]
		if !f.force && runesEqual(line, f.prev[start:start+f.cols]) {
			continue
		}
		f.out = append(f.out, "\033["...)
		f.out = strconv.AppendInt(f.out, int64(row+1+f.offRow), 10)
		f.out = append(f.out, ';')
		f.out = strconv.AppendInt(f.out, int64(1+f.offCol), 10)
		f.out = append(f.out, 'H')
		for _, r := range line {
			f.out = utf8.AppendRune(f.out, r)
		}
	}
	copy(f.prev, f.cells)
	f.force = false

	if len(f.out) == 0 {
		return nil
	}
	return writeChunked(w, f.out)
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
