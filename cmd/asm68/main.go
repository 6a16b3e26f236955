package main

import (
	"fmt"
	"os"

	"github.com/Urethramancer/emu68/encoder"
	"github.com/Urethramancer/emu68/parser"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <sourcefile> [outputfile]\n", os.Args[0])
		os.Exit(1)
	}

	inputFile := os.Args[1]
	var outputFile string
	if len(os.Args) == 3 {
		outputFile = os.Args[2]
	}

	src, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %v\n", err)
		os.Exit(1)
	}

	prog, perr := parser.Parse(string(src), parser.Settings{})
	if perr != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", perr)
		os.Exit(1)
	}

	mem, err := encoder.Compile(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error: %v\n", err)
		os.Exit(1)
	}

	// The image is already in M68K big-endian word order.
	code := mem.Data

	if outputFile == "" {
		// Print as hex dump for inspection.
		for i, b := range code {
			fmt.Printf("%02X ", b)
			if (i+1)%16 == 0 {
				fmt.Println()
			}
		}
		fmt.Println()
	} else {
		if err := os.WriteFile(outputFile, code, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Assembled binary written in M68K big-endian format to %s\n", outputFile)
	}
}
