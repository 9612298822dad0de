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

package main

import (
	"bufio"
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/gochip8/pkg/assembler"
	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

var helpvar bool
var debugvar bool
var listvar bool
var outvar string

const usage = "gochip8-asm [-debug] [-list] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.c8db'",
	)
	flag.BoolVar(
		&listvar, "list", false,
		"Prints a listing of the assembled program to stdout",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// reportError logs err and, for positional errors in a seekable source,
// the offending line with the token underlined.
func reportError(input io.ReadSeeker, err error) {
	var tokenErr assembler.TokenError

	if input == os.Stdin || !errors.As(err, &tokenErr) {
		log.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()

	if _, err := input.Seek(cursor.LineByte, io.SeekStart); err != nil {
		panic(err)
	}

	line, _ := bufio.NewReader(input).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	underline := ""
	if cursor.Size > 1 {
		underline = strings.Repeat("~", int(cursor.Size)-1)
	}

	underlinefmt := fmt.Sprintf(
		"%% %ds%s", int(cursor.Byte-cursor.LineByte)+1, underline,
	)

	log.Printf(
		"%s\n%s\n\033[31m%s\033[0m",
		err,
		line,
		fmt.Sprintf(underlinefmt, "^"),
	)
}

func writeSymTable(filename string, symtable *assembler.SymTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(symtable); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// printListing writes one line per word of the assembled image. Data
// emitted by .DB/.DW decodes like any other word.
func printListing(w io.Writer, image []byte, symtable *assembler.SymTable) {
	for i := 0; i < len(image); i += 2 {
		addr := machine.MEMSPACE_PROGRAM + uint16(i)

		if label, ok := symtable.Labels[addr]; ok {
			fmt.Fprintf(w, "%s:\n", label)
		}

		if i+1 == len(image) {
			fmt.Fprintf(w, "  %#04x  %#02x\n", addr, image[i])
			break
		}

		word := encoding.Word(image[i], image[i+1])
		fmt.Fprintf(
			w, "  %#04x  %#04x  %s\n", addr, word, machine.Decode(word),
		)
	}
}

func gochip8Asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, err := os.Stdin.Stat(); len(args) == 0 && err == nil &&
		stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.ch8"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid CHIP-8 assembly file", filename)
				return 1
			}
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = withExt(filename, ".ch8")
		}
	}

	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if debugvar && input != os.Stdin {
		var err error
		if symtable.Source, err = filepath.Abs(infile); err != nil {
			log.Println(err)
			symtable.Source = ""
		}
	}

	if debugvar || listvar {
		symtarget = &symtable
	}

	result, errs := assembler.AssembleSource(input, symtarget)

	if len(errs) > 0 {
		for _, err := range errs {
			reportError(input, err)
		}

		return 1
	}

	if listvar {
		printListing(os.Stdout, result, &symtable)
	}

	if err := os.WriteFile(outvar, result, 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		if err := writeSymTable(withExt(outvar, ".c8db"), &symtable); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(gochip8Asm())
}
