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

package machine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lassandro/gochip8/pkg/machine"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		Word uint16
		Want machine.Instruction
		Text string
	}{
		{0x00E0, machine.Instruction{Op: machine.OP_CLS}, "CLS"},
		{0x00EE, machine.Instruction{Op: machine.OP_RET}, "RET"},
		{0x12A0, machine.Instruction{Op: machine.OP_JP, NNN: 0x2A0}, "JP 0x2a0"},
		{0x2345, machine.Instruction{Op: machine.OP_CALL, NNN: 0x345}, "CALL 0x345"},
		{0x6C05, machine.Instruction{Op: machine.OP_LD, X: 0xC, NN: 0x05}, "LD VC, 0x05"},
		{0x7F80, machine.Instruction{Op: machine.OP_ADD, X: 0xF, NN: 0x80}, "ADD VF, 0x80"},
		{0xA123, machine.Instruction{Op: machine.OP_LDI, NNN: 0x123}, "LD I, 0x123"},
		{0xD01F, machine.Instruction{Op: machine.OP_DRW, X: 0, Y: 1, N: 0xF}, "DRW V0, V1, 15"},
		{0xFFFF, machine.Instruction{Op: machine.OP_INVALID}, "???"},
		{0x0123, machine.Instruction{Op: machine.OP_INVALID}, "???"},
	}

	for _, test := range tests {
		have := machine.Decode(test.Word)

		if diff := cmp.Diff(test.Want, have); diff != "" {
			t.Errorf("%#04x (-want +have):\n%s", test.Word, diff)
		}

		if text := have.String(); text != test.Text {
			t.Errorf("%#04x: want %q have %q", test.Word, test.Text, text)
		}

		word, ok := have.Encode()

		if have.Op == machine.OP_INVALID {
			if ok {
				t.Errorf("%#04x: invalid instruction encoded as %#04x", test.Word, word)
			}
		} else if !ok || word != test.Word {
			t.Errorf("%#04x: encoded as %#04x (ok=%v)", test.Word, word, ok)
		}
	}
}
