// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package termdisplay renders the framebuffer to an ANSI terminal using
// half-block characters, two framebuffer rows per text line.
package termdisplay

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/gochip8/pkg/machine"
)

const (
	blockFull  = '█'
	blockUpper = '▀'
	blockLower = '▄'
)

type Display struct {
	// Scale repeats every pixel horizontally
	Scale int

	out   *bufio.Writer
	frame strings.Builder
}

func New(w io.Writer, scale int) *Display {
	if scale < 1 {
		scale = 1
	}

	return &Display{Scale: scale, out: bufio.NewWriter(w)}
}

// Fits checks that fd is a terminal at least as large as a rendered frame
func Fits(fd int, scale int) error {
	if !term.IsTerminal(fd) {
		return fmt.Errorf("output is not a terminal")
	}

	width, height, err := term.GetSize(fd)

	if err != nil {
		return err
	}

	wantWidth := machine.SCREEN_WIDTH * scale
	wantHeight := machine.SCREEN_HEIGHT / 2

	if width < wantWidth || height < wantHeight {
		return fmt.Errorf(
			"terminal is %dx%d, need at least %dx%d",
			width, height, wantWidth, wantHeight,
		)
	}

	return nil
}

// Render draws the whole frame with a single write so a partially drawn
// frame is never visible.
func (d *Display) Render(fb *machine.Framebuffer) error {
	d.frame.Reset()

	// Home the cursor instead of clearing to avoid flicker
	d.frame.WriteString("\033[H")

	for y := 0; y < machine.SCREEN_HEIGHT; y += 2 {
		for x := 0; x < machine.SCREEN_WIDTH; x++ {
			top := fb[y][x] != 0
			bottom := y+1 < machine.SCREEN_HEIGHT && fb[y+1][x] != 0

			char := ' '
			switch {
			case top && bottom:
				char = blockFull
			case top:
				char = blockUpper
			case bottom:
				char = blockLower
			}

			for i := 0; i < d.Scale; i++ {
				d.frame.WriteRune(char)
			}
		}

		d.frame.WriteString("\r\n")
	}

	if _, err := d.out.WriteString(d.frame.String()); err != nil {
		return err
	}

	return d.out.Flush()
}

// Clear blanks the terminal and shows the cursor again
func (d *Display) Clear() error {
	if _, err := d.out.WriteString("\033[H\033[2J\033[?25h"); err != nil {
		return err
	}

	return d.out.Flush()
}

// Hide blanks the terminal and hides the cursor before the first frame
func (d *Display) Hide() error {
	if _, err := d.out.WriteString("\033[H\033[2J\033[?25l"); err != nil {
		return err
	}

	return d.out.Flush()
}
