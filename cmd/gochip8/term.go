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

//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var termRestore *unix.Termios

func enterRawTerm() {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), ioctlGetTermios)

	if err != nil {
		// Not a terminal (piped input); nothing to restore
		return
	}

	restore := *termios
	termRestore = &restore
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlSetTermios, &termstate,
	); err != nil {
		panic(err)
	}
}

func exitRawTerm() {
	if termRestore == nil {
		return
	}

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlSetTermios, termRestore,
	); err != nil {
		panic(err)
	}

	termRestore = nil
}

func inRawTerm() bool {
	return termRestore != nil
}

// pollQuitKey reads whatever is pending on stdin without blocking and
// reports whether q or Escape was pressed. It only polls in raw mode.
func pollQuitKey() bool {
	// Outside raw mode a read would block until input arrives
	if termRestore == nil {
		return false
	}

	var scratch [16]byte

	n, _ := os.Stdin.Read(scratch[:])

	for _, key := range scratch[:n] {
		if key == 'q' || key == 'Q' || key == 0x1B {
			return true
		}
	}

	return false
}
