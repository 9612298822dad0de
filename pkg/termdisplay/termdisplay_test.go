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

package termdisplay_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/termdisplay"
)

func TestRender(t *testing.T) {
	var out bytes.Buffer
	var fb machine.Framebuffer

	fb[0][0] = 1
	fb[1][0] = 1
	fb[0][1] = 1
	fb[3][2] = 1
	fb[31][63] = 1

	display := termdisplay.New(&out, 1)

	if err := display.Render(&fb); err != nil {
		t.Fatal(err)
	}

	frame := out.String()

	if !strings.HasPrefix(frame, "\033[H") {
		t.Fatalf("Frame does not home the cursor: %q", frame[:8])
	}

	lines := strings.Split(strings.TrimSuffix(frame[3:], "\r\n"), "\r\n")

	if len(lines) != machine.SCREEN_HEIGHT/2 {
		t.Fatalf("want %d lines, have %d", machine.SCREEN_HEIGHT/2, len(lines))
	}

	first := []rune(lines[0])
	if len(first) != machine.SCREEN_WIDTH {
		t.Fatalf("want %d columns, have %d", machine.SCREEN_WIDTH, len(first))
	}

	if first[0] != '█' || first[1] != '▀' || first[2] != ' ' {
		t.Errorf("Line 0 mismatch: %q", string(first[:4]))
	}

	if second := []rune(lines[1]); second[2] != '▄' {
		t.Errorf("Line 1 mismatch: %q", string(second[:4]))
	}

	if last := []rune(lines[15]); last[63] != '▄' {
		t.Errorf("Line 15 mismatch: %q", string(last[60:]))
	}
}

func TestRenderScale(t *testing.T) {
	var out bytes.Buffer
	var fb machine.Framebuffer

	fb[0][1] = 1

	if err := termdisplay.New(&out, 3).Render(&fb); err != nil {
		t.Fatal(err)
	}

	first := []rune(strings.Split(out.String()[3:], "\r\n")[0])

	if len(first) != machine.SCREEN_WIDTH*3 {
		t.Fatalf("want %d columns, have %d", machine.SCREEN_WIDTH*3, len(first))
	}

	if string(first[:6]) != "   ▀▀▀" {
		t.Errorf("Scaled pixel mismatch: %q", string(first[:6]))
	}
}

func TestFitsRejectsFiles(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "frame")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if err := termdisplay.Fits(int(file.Fd()), 1); err == nil {
		t.Error("Regular file accepted as terminal")
	}
}
