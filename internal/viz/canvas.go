package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell carries the colour of the
// last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colour        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colour: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colour[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights the sub-pixel at (x, y). Out of range coordinates are ignored.
func (c *Canvas) Set(x, y int, colour lipgloss.Color) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colour[row][col] = colour
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colour[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, colour lipgloss.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, colour)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle lights every sub-pixel within r of (cx, cy). A radius below
// one still lights the centre.
func (c *Canvas) FillCircle(cx, cy, r int, colour lipgloss.Color) {
	if r < 1 {
		c.Set(cx, cy, colour)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy, colour)
			}
		}
	}
}

// Circle draws an outline with the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, colour lipgloss.Color) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y, colour)
		c.Set(cx+y, cy+x, colour)
		c.Set(cx-y, cy+x, colour)
		c.Set(cx-x, cy+y, colour)
		c.Set(cx-x, cy-y, colour)
		c.Set(cx-y, cy-x, colour)
		c.Set(cx+y, cy-x, colour)
		c.Set(cx+x, cy-y, colour)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with each run of same coloured cells wrapped in
// one lipgloss style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colour[i][j] == c.Colour[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colour[i][start]; col != "" {
				run = lipgloss.NewStyle().Foreground(col).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
