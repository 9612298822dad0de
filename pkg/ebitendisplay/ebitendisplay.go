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

// Package ebitendisplay presents the framebuffer in an ebiten window. Ebiten
// owns the game loop, so the driver's per-frame function is handed to it.
package ebitendisplay

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lassandro/gochip8/pkg/machine"
)

const (
	bytesPerPixel = 4
	foreground    = 0xFF
	background    = 0x00
)

type Display struct {
	// Frame is called once per tick from ebiten's update loop
	Frame func() error

	// Quit is polled before every Frame; true closes the window
	Quit func() bool

	scale  int
	pixels []byte
}

var _ ebiten.Game = (*Display)(nil)

func New(scale int) *Display {
	if scale < 1 {
		scale = 1
	}

	return &Display{
		scale: scale,
		pixels: make(
			[]byte,
			machine.SCREEN_WIDTH*machine.SCREEN_HEIGHT*bytesPerPixel,
		),
	}
}

// Render converts the framebuffer to RGBA. The image is uploaded on the next
// Draw, which ebiten presents as a whole.
func (d *Display) Render(fb *machine.Framebuffer) error {
	for y := range fb {
		for x, cell := range fb[y] {
			value := byte(background)
			if cell != 0 {
				value = foreground
			}

			offset := (y*machine.SCREEN_WIDTH + x) * bytesPerPixel
			d.pixels[offset+0] = value
			d.pixels[offset+1] = value
			d.pixels[offset+2] = value
			d.pixels[offset+3] = 0xFF
		}
	}

	return nil
}

// Run blocks until the window is closed, Escape is pressed, Quit reports
// true or Frame fails.
func (d *Display) Run(title string) error {
	ebiten.SetWindowSize(
		machine.SCREEN_WIDTH*d.scale, machine.SCREEN_HEIGHT*d.scale,
	)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(60)

	return ebiten.RunGame(d)
}

func (d *Display) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if d.Quit != nil && d.Quit() {
		return ebiten.Termination
	}

	if d.Frame == nil {
		return nil
	}

	return d.Frame()
}

func (d *Display) Draw(screen *ebiten.Image) {
	screen.WritePixels(d.pixels)
}

func (d *Display) Layout(_, _ int) (int, int) {
	return machine.SCREEN_WIDTH, machine.SCREEN_HEIGHT
}
