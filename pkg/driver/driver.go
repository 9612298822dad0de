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

// Package driver runs a machine against a display at a fixed frame rate.
package driver

import (
	"errors"
	"log"
	"time"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

// Roughly 60 frames per second
const DefaultFrameDelay = 16 * time.Millisecond

type Loop struct {
	Machine *machine.Machine
	Display machine.Display

	// Quit is polled once per frame; nil runs forever
	Quit func() bool

	// Instructions executed per frame
	Cycles int

	FrameDelay time.Duration

	// Trace logs every instruction before it executes
	Trace bool

	Logger *log.Logger
}

func New(mc *machine.Machine, display machine.Display) *Loop {
	return &Loop{
		Machine:    mc,
		Display:    display,
		Cycles:     1,
		FrameDelay: DefaultFrameDelay,
	}
}

// Recoverable reports whether a step error should be logged and skipped
// rather than stop the loop.
func Recoverable(err error) bool {
	return errors.Is(err, machine.ErrUnknownOpcode) ||
		errors.Is(err, machine.ErrStackOverflow) ||
		errors.Is(err, machine.ErrStackUnderflow)
}

func (l *Loop) logger() *log.Logger {
	if l.Logger == nil {
		return log.Default()
	}

	return l.Logger
}

func (l *Loop) trace() {
	state := &l.Machine.State
	pc := state.Program % machine.MEMORY_SIZE
	word := encoding.Word(
		state.Memory[pc], state.Memory[(pc+1)%machine.MEMORY_SIZE],
	)

	l.logger().Printf("%#04x: %#04x %s", pc, word, machine.Decode(word))
}

// Frame runs one iteration: Cycles instructions, one timer tick and one
// render. Only errors that are not Recoverable are returned.
func (l *Loop) Frame() error {
	cycles := l.Cycles
	if cycles < 1 {
		cycles = 1
	}

	for i := 0; i < cycles; i++ {
		if l.Trace {
			l.trace()
		}

		if err := l.Machine.Step(); err != nil {
			if !Recoverable(err) {
				return err
			}

			l.logger().Println(err)
		}
	}

	l.Machine.Tick()

	if l.Display == nil {
		return nil
	}

	return l.Display.Render(&l.Machine.State.Screen)
}

// Run calls Frame until Quit reports true or a frame fails.
func (l *Loop) Run() error {
	for l.Quit == nil || !l.Quit() {
		if err := l.Frame(); err != nil {
			return err
		}

		if l.FrameDelay > 0 {
			time.Sleep(l.FrameDelay)
		}
	}

	return nil
}
