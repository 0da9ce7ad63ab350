// Command gone loads an iNES ROM and runs it against the 6502 core,
// optionally tracing retired instructions or dropping into the interactive
// debugger instead of free-running.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gone/bus"
	"gone/cartridge"
	"gone/cpu"
	"gone/mem"
	"gone/ppu"
)

func loadRom(path string) (*cartridge.Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rom: %w", err)
	}
	defer f.Close()

	return cartridge.ReadINES(f)
}

func run(romPath string, debug, trace bool, cycles int) error {
	cart, err := loadRom(romPath)
	if err != nil {
		return err
	}

	ram := mem.New(2048)
	b := bus.New(ram, ppu.New(), cart)
	c := cpu.New(b)

	if debug {
		c.Debug()
		return nil
	}

	n := 0
	for cycles == 0 || n < cycles {
		if trace && c.Cycles == 0 {
			fmt.Println(c.Disassemble(c.ProgramCounter))
		}
		if err := c.Clock(); err != nil {
			return fmt.Errorf("cycle %d: %w", n, err)
		}
		n++
	}
	return nil
}

func main() {
	rom := flag.String("rom", "", "path to an iNES ROM file (required)")
	debug := flag.Bool("debug", false, "launch the interactive instruction stepper instead of free-running")
	trace := flag.Bool("trace", false, "print one disassembled line per retired instruction")
	cyclesFlag := flag.Int("cycles", 0, "stop after this many clock cycles (0 = run until a fatal error)")
	flag.Parse()

	if *rom == "" {
		fmt.Fprintln(os.Stderr, "gone: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*rom, *debug, *trace, *cyclesFlag); err != nil {
		log.Fatalf("gone: %s", err)
	}
}
