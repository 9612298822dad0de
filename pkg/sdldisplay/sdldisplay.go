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

// Package sdldisplay presents the framebuffer in an SDL2 window and reports
// the window's quit event to the driver loop.
package sdldisplay

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/lassandro/gochip8/pkg/machine"
)

type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	scale int32
	rects []sdl.Rect
	quit  bool
}

// SDL must be driven from the main OS thread
func init() {
	runtime.LockOSThread()
}

// New opens a window of the framebuffer size times scale. It must be called
// from the main goroutine.
func New(title string, scale int) (*Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(machine.SCREEN_WIDTH*scale), int32(machine.SCREEN_HEIGHT*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %v", err)
	}

	return &Display{
		window:   window,
		renderer: renderer,
		scale:    int32(scale),
		rects:    make([]sdl.Rect, 0, machine.SCREEN_WIDTH*machine.SCREEN_HEIGHT),
	}, nil
}

// Render clears to black, fills every lit cell in white and presents the
// result in one swap.
func (d *Display) Render(fb *machine.Framebuffer) error {
	if err := d.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}

	if err := d.renderer.Clear(); err != nil {
		return err
	}

	d.rects = d.rects[:0]
	fb.Lit(func(x, y int) {
		d.rects = append(d.rects, sdl.Rect{
			X: int32(x) * d.scale,
			Y: int32(y) * d.scale,
			W: d.scale,
			H: d.scale,
		})
	})

	if len(d.rects) > 0 {
		if err := d.renderer.SetDrawColor(255, 255, 255, 255); err != nil {
			return err
		}

		if err := d.renderer.FillRects(d.rects); err != nil {
			return err
		}
	}

	d.renderer.Present()

	return nil
}

// Quit drains pending window events and reports whether the window has been
// asked to close.
func (d *Display) Quit() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			d.quit = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				d.quit = true
			}
		}
	}

	return d.quit
}

// Destroy cleans up the window and shuts SDL down.
func (d *Display) Destroy() {
	if d.renderer != nil {
		_ = d.renderer.Destroy()
		d.renderer = nil
	}

	if d.window != nil {
		_ = d.window.Destroy()
		d.window = nil
	}

	sdl.Quit()
}
