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

package assembler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lassandro/gochip8/pkg/assembler"
)

func TestErrorPosition(t *testing.T) {
	_, errs := assembler.AssembleSource(
		strings.NewReader("CLS\nJP nowhere\n"), nil,
	)

	if len(errs) != 1 {
		t.Fatalf("want 1 error, have %v", errs)
	}

	var labelErr *assembler.UnknownLabelError

	if !errors.As(errs[0], &labelErr) {
		t.Fatalf("want *assembler.UnknownLabelError, have %T", errs[0])
	}

	want := assembler.Cursor{
		Line:     2,
		Column:   4,
		Byte:     7,
		Size:     7,
		LineByte: 4,
	}

	if diff := cmp.Diff(want, labelErr.GetPosition()); diff != "" {
		t.Fatalf("Position mismatch (-want +have):\n%s", diff)
	}

	if have := labelErr.Error(); have != "02:04: Unknown label 'nowhere'" {
		t.Fatalf("unexpected message %q", have)
	}
}

func TestErrorMessages(t *testing.T) {
	at := assembler.Cursor{Line: 3, Column: 9}

	tests := []struct {
		Err  error
		Want string
	}{
		{
			&assembler.InvalidOperandError{
				at,
				[]assembler.TokenType{assembler.TOKEN_REGISTER},
				assembler.TOKEN_LITERAL,
			},
			"03:09: Invalid operands\n\twant:Register\n\thave:Literal",
		},
		{
			&assembler.InvalidOperandError{
				at,
				[]assembler.TokenType{
					assembler.TOKEN_LITERAL, assembler.TOKEN_IDENT,
				},
				assembler.TOKEN_DIRECTIVE,
			},
			"03:09: Invalid operands\n\twant:Literal or Identifier" +
				"\n\thave:Directive",
		},
		{
			&assembler.InvalidNumArgumentsError{at, 3, 2},
			"03:09: Invalid number of arguments\n\twant:3\n\thave:2",
		},
		{
			&assembler.OversizedLiteralError{at, 0x100, 0x1FF},
			"03:09: Literal exceeds allowed size\n\twant:<0x100\n\thave:0x1ff",
		},
		{
			&assembler.UnexpectedCharacterError{at, '$'},
			"03:09: Unexpected character $",
		},
		{
			&assembler.OversizedBinaryError{3586},
			"Binary exceeds allowed size\n\twant:<=3584 bytes" +
				"\n\thave:3586 bytes",
		},
	}

	for _, test := range tests {
		if have := test.Err.Error(); have != test.Want {
			t.Errorf("want %q, have %q", test.Want, have)
		}
	}
}
