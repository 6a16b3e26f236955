package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Urethramancer/emu68/config"
	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/emulator"
)

var (
	configPath = flag.String("config", "emu68.toml", "Configuration file.")
	stackSize  = flag.Int("stack", 0, "Stack size in bytes, overriding the config.")
	retain     = flag.String("retain", "", "State retention: always or never, overriding the config.")
	maxSteps   = flag.Int("steps", 0, "Maximum number of instructions to execute, overriding the config.")
	trace      = flag.Bool("trace", false, "Dump registers after every step.")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Println("Usage: run68 [options] <filename>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *stackSize > 0 {
		cfg.Emulator.StackSize = int32(*stackSize)
	}
	if *retain != "" {
		cfg.Emulator.RetainStates = *retain
	}
	if *maxSteps > 0 {
		cfg.Emulator.MaxSteps = *maxSteps
	}

	settings, err := cfg.EmulatorSettings()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	emu := emulator.NewWithSettings(settings)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".asm", ".s":
		log.Printf("Assembling %s...", filename)
		src, err := os.ReadFile(filename)
		if err != nil {
			log.Fatalf("Couldn't read source file: %v", err)
		}
		if err := emu.NewState(string(src)); err != nil {
			log.Fatalf("Assembly failed: %v", err)
		}

	case ".bin", ".m68":
		log.Printf("Loading binary %s...", filename)
		code, err := os.ReadFile(filename)
		if err != nil {
			log.Fatalf("Couldn't read binary file: %v", err)
		}
		emu.NewStateFromBinary(code)

	default:
		log.Fatalf("Unknown file extension: %s. Use .asm, .s, .bin, or .m68", ext)
	}

	head := emu.States()[len(emu.States())-1]
	log.Printf("Loaded %d bytes of code, %d bytes of stack.",
		head.Mem.Executable.End, head.Mem.Stack.End-head.Mem.Stack.Begin)
	log.Println("\n--- CPU State Before Execution ---")
	dumpRegisters(&head)

	steps := 0
	for steps < cfg.Emulator.MaxSteps && emu.Step() {
		steps++
		if *trace {
			log.Printf("\n--- After step %d ---", steps)
			s := emu.States()[len(emu.States())-1]
			dumpRegisters(&s)
		}
	}

	final := emu.States()[len(emu.States())-1]
	log.Println("\n--- CPU State After Execution ---")
	dumpRegisters(&final)

	if steps >= cfg.Emulator.MaxSteps {
		log.Printf("\nExecution finished: maximum step count (%d) reached.", cfg.Emulator.MaxSteps)
	} else {
		log.Printf("\nExecution finished after %d instructions.", steps)
	}
}

// dumpRegisters prints the register file: data registers, address
// registers, then PC and flags.
func dumpRegisters(s *cpu.System) {
	for i := 0; i < 8; i += 4 {
		log.Printf("D%d: %08X  D%d: %08X  D%d: %08X  D%d: %08X",
			i, s.CPU.D[i], i+1, s.CPU.D[i+1], i+2, s.CPU.D[i+2], i+3, s.CPU.D[i+3])
	}
	for i := 0; i < 8; i += 4 {
		log.Printf("A%d: %08X  A%d: %08X  A%d: %08X  A%d: %08X",
			i, s.CPU.A[i], i+1, s.CPU.A[i+1], i+2, s.CPU.A[i+2], i+3, s.CPU.A[i+3])
	}
	log.Printf("PC: %08X  X:%d N:%d Z:%d V:%d C:%d",
		s.CPU.PC,
		flag01(s.CPU.SR, cpu.SRX), flag01(s.CPU.SR, cpu.SRN),
		flag01(s.CPU.SR, cpu.SRZ), flag01(s.CPU.SR, cpu.SRV),
		flag01(s.CPU.SR, cpu.SRC))
}

func flag01(sr uint16, bit uint16) int {
	if sr&bit != 0 {
		return 1
	}
	return 0
}
