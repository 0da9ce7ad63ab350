// Package cpu implements the MOS Technology 6502 microprocessor, as used in
// the NES.
package cpu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gone/bus"
	"gone/errs"
	"gone/mask"
)

// https://www.nesdev.org/wiki/CPU#Frequencies
// https://www.nesdev.org/wiki/Cycle_reference_chart#Clock_rates

var (
	tick = 1e9 / 1789773 // cannot be inlined into time.Duration, even with cast
	Tick = time.Nanosecond * time.Duration(tick)
)

const (
	nmiVectorLo   = 0xFFFA
	resetVectorLo = 0xFFFC
	irqVectorLo   = 0xFFFE
)

// Flags are the 8 bits that make up the status register (aka P register).
//
// https://www.nesdev.org/wiki/Status_flags#Flags
//
//	7654 3210
//	NV1B DIZC
type Flags struct {
	Negative  bool // bit 7
	Overflow  bool // bit 6
	Unused    bool // bit 5; always reads as 1 once materialized
	Break     bool // bit 4; only meaningful in a byte pushed to the stack
	Decimal   bool // bit 3; inherited from the 6502, unused by the NES
	Interrupt bool // bit 2
	Zero      bool // bit 1
	Carry     bool // bit 0
}

// Byte packs Flags into the status byte layout N V U B D I Z C.
func (f Flags) Byte() byte {
	var out byte
	if f.Negative {
		out = mask.Set(out, mask.I1, 1)
	}
	if f.Overflow {
		out = mask.Set(out, mask.I2, 1)
	}
	if f.Unused {
		out = mask.Set(out, mask.I3, 1)
	}
	if f.Break {
		out = mask.Set(out, mask.I4, 1)
	}
	if f.Decimal {
		out = mask.Set(out, mask.I5, 1)
	}
	if f.Interrupt {
		out = mask.Set(out, mask.I6, 1)
	}
	if f.Zero {
		out = mask.Set(out, mask.I7, 1)
	}
	if f.Carry {
		out = mask.Set(out, mask.I8, 1)
	}
	return out
}

// FlagsFromByte unpacks a status byte in the N V U B D I Z C layout. Unused
// is always true: it has no physical storage on the real chip.
func FlagsFromByte(b byte) Flags {
	return Flags{
		Negative:  mask.IsSet(b, mask.I1),
		Overflow:  mask.IsSet(b, mask.I2),
		Unused:    true,
		Break:     mask.IsSet(b, mask.I4),
		Decimal:   mask.IsSet(b, mask.I5),
		Interrupt: mask.IsSet(b, mask.I6),
		Zero:      mask.IsSet(b, mask.I7),
		Carry:     mask.IsSet(b, mask.I8),
	}
}

// The Cpu has no memory of its own (aside from a handful of small
// registers). Instead, the Cpu interfaces with a Bus that provides memory.
type Cpu struct {
	Bus *bus.Bus

	Flags Flags

	Accumulator byte // a byte value for immediate use, similar to a local variable
	X           byte
	Y           byte

	// Stack instructions (PHA, PLA, PHP, PLP, JSR, RTS, BRK, RTI) always
	// access page 01 (0x0100-0x01ff). Stack holds the low byte of that
	// address.
	Stack byte

	// ProgramCounter is a 2-byte address that increments (almost)
	// continuously. The byte located there is the next Opcode to decode.
	ProgramCounter uint16

	M          byte // the operand fetched after AddressingMode resolution
	AbsAddress uint16
	RelAddress int8 // signed branch displacement, set by Relative mode
	Cycles     byte // decrements to 0, at which point a new instruction is decoded

	mode AddressingMode // addressing mode of the instruction currently decoding, for writeback
}

// Read reads one byte from addr via the Bus.
func (c *Cpu) Read(addr uint16) byte {
	return c.Bus.Read(addr)
}

// Write passes data to the Bus, which performs the write.
func (c *Cpu) Write(addr uint16, data byte) {
	c.Bus.Write(addr, data)
}

// LoadProgram parses a whitespace-separated string of hex byte values and
// writes them through the Bus starting at addr. Intended for quick
// scratch-program loading in the debugger and tests, not for ROM loading
// (use the cartridge package for that).
func (c *Cpu) LoadProgram(program []byte, addr uint16) {
	for i, s := range strings.Fields(string(program)) {
		b, err := strconv.ParseInt(s, 16, 16)
		if err != nil {
			panic(err)
		}
		c.Write(addr+uint16(i), byte(b))
	}
}

// New constructs a Cpu wired to b and runs a power-on Reset.
func New(b *bus.Bus) *Cpu {
	c := &Cpu{Bus: b}
	c.Reset()
	return c
}

// An AddressingMode tells the Cpu where to find the operand for an
// instruction. There are 13 possible modes.
//
// Most instructions can index the full 64 kB range of memory -- 256 pages
// of 256 bytes. The exception is ZeroPage, which is confined to the first
// page.
type AddressingMode int

const (
	Implied     AddressingMode = iota // does not advance beyond the opcode byte
	Accumulator                       // operand is the Accumulator itself

	Immediate // operand is the byte following the opcode
	ZeroPage  // 0x00-0xff
	ZeroPageX
	ZeroPageY // LDX, STX

	IndirectX // pre-indexed: (zp+X), (zp+X+1)
	IndirectY // post-indexed: (zp), (zp+1), then +Y
	Relative  // signed 8-bit branch displacement

	Absolute
	AbsoluteX
	AbsoluteY

	Indirect // JMP only; reproduces the page-wrap bug
)

// word assembles a 16-bit little-endian address from its high and low
// bytes.
func word(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Cpu) fetch(b byte) (Opcode, error) {
	oc, legal := Opcodes[b]
	if !legal {
		return Opcode{}, fmt.Errorf("%w: %#02x", errs.ErrInvalidOpcode, b)
	}
	return oc, nil
}

// decode resolves the operand for addressing mode a, advancing
// ProgramCounter as many times as the mode requires and leaving the result
// in c.AbsAddress (or c.RelAddress, for Relative). For every mode except
// Implied, Accumulator, and Relative, the resolved byte is also loaded into
// c.M.
//
// c.Cycles is bumped immediately when AbsoluteX, AbsoluteY, or IndirectY
// cross a page boundary while forming their address; branch-taken cycles
// are added by the branch instructions themselves, once the condition is
// known.
func (c *Cpu) decode(a AddressingMode) {
	c.mode = a

	switch a {

	case Implied:
		return

	case Accumulator:
		c.M = c.Accumulator
		return

	case Immediate:
		c.AbsAddress = c.ProgramCounter
		c.ProgramCounter++

	case ZeroPage:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter))
		c.ProgramCounter++
		c.AbsAddress &= 0x00ff

	case ZeroPageX:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter) + c.X)
		c.ProgramCounter++
		c.AbsAddress &= 0x00ff

	case ZeroPageY:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter) + c.Y)
		c.ProgramCounter++
		c.AbsAddress &= 0x00ff

	case Relative:
		offset := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		c.RelAddress = int8(offset)
		return

	case Absolute:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		c.AbsAddress = word(hi, lo)

	case AbsoluteX:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		base := word(hi, lo)
		c.AbsAddress = base + uint16(c.X)
		if c.AbsAddress&0xff00 != base&0xff00 {
			c.Cycles++
		}

	case AbsoluteY:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		base := word(hi, lo)
		c.AbsAddress = base + uint16(c.Y)
		if c.AbsAddress&0xff00 != base&0xff00 {
			c.Cycles++
		}

	case IndirectX:
		ptr := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		lo := c.Read(uint16(ptr+c.X) & 0x00ff)
		hi := c.Read(uint16(ptr+c.X+1) & 0x00ff)
		c.AbsAddress = word(hi, lo)

	case IndirectY:
		ptr := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		lo := c.Read(uint16(ptr) & 0x00ff)
		hi := c.Read(uint16(ptr+1) & 0x00ff)
		base := word(hi, lo)
		c.AbsAddress = base + uint16(c.Y)
		if c.AbsAddress&0xff00 != base&0xff00 {
			c.Cycles++
		}

	case Indirect:
		ptrLo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		ptrHi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		ptr := word(ptrHi, ptrLo)

		realLo := c.Read(ptr)

		var realHi byte
		if ptrLo == 0xff {
			// Documented hardware bug: if the pointer's low byte is
			// 0xff, the high byte is fetched from the start of the
			// same page instead of the next page.
			// http://www.6502.org/tutorials/6502opcodes.html#JMP
			realHi = c.Read(ptr & 0xff00)
		} else {
			realHi = c.Read(ptr + 1)
		}

		c.AbsAddress = word(realHi, realLo)
	}

	c.M = c.Read(c.AbsAddress)
}

// writeback stores c.M back where it came from: the Accumulator if the
// current instruction used Accumulator addressing, otherwise the resolved
// memory address. Read-modify-write instructions (ASL, LSR, ROL, ROR, INC,
// DEC) and the store instructions (STA, STX, STY) all funnel through here.
func (c *Cpu) writeback() {
	if c.mode == Accumulator {
		c.Accumulator = c.M
		return
	}
	c.Write(c.AbsAddress, c.M)
}

// push writes data to the stack page and decrements Stack, with 8-bit wrap.
func (c *Cpu) push(data byte) {
	c.Write(0x0100|uint16(c.Stack), data)
	c.Stack--
}

// pull increments Stack and reads from the stack page, with 8-bit wrap.
func (c *Cpu) pull() byte {
	c.Stack++
	return c.Read(0x0100 | uint16(c.Stack))
}

func (c *Cpu) pushWord(w uint16) {
	c.push(byte(w >> 8))
	c.push(byte(w))
}

func (c *Cpu) pullWord() uint16 {
	lo := c.pull()
	hi := c.pull()
	return word(hi, lo)
}

// takeBranch applies a taken branch's displacement to ProgramCounter and
// accounts for its extra cycles: +1 for the branch being taken, +1 more if
// the branch crosses a page boundary.
func (c *Cpu) takeBranch() {
	target := uint16(int32(c.ProgramCounter) + int32(c.RelAddress))
	c.Cycles++
	if target&0xff00 != c.ProgramCounter&0xff00 {
		c.Cycles++
	}
	c.ProgramCounter = target
}

// Clock runs a single fetch/decode/execute step when the current
// instruction's cycle budget has been exhausted, then stalls for one cycle.
// It is the CPU's only externally driven entry point.
func (c *Cpu) Clock() error {
	if c.Cycles == 0 {
		if err := c.step(); err != nil {
			return err
		}
	}
	c.Cycles--
	return nil
}

// step performs one whole-instruction fetch/decode/execute. This is not
// cycle-accurate sub-instruction timing: all of an instruction's work
// happens on the tick that begins it, and c.Cycles only paces subsequent
// Clock calls until the next instruction is due.
func (c *Cpu) step() error {
	b := c.Read(c.ProgramCounter)
	op, err := c.fetch(b)
	if err != nil {
		return err
	}
	c.ProgramCounter++

	c.Cycles = op.Cycles
	c.decode(op.AddressingMode)
	switch op.Name {
	case "STA", "ASL", "LSR", "ROL", "ROR", "INC", "DEC":
		// Stores and read-modify-writes always pay the indexing cycle;
		// their base count already includes it, so no page-cross extra.
		c.Cycles = op.Cycles
	}
	op.Instruction(c)

	return nil
}

// Reset performs the documented power-on/reset sequence: registers are
// cleared, the stack pointer is set to 0xfd, status is U|I, and the
// program counter is loaded from the reset vector.
func (c *Cpu) Reset() {
	c.Accumulator = 0
	c.X = 0
	c.Y = 0

	c.Stack = 0xfd

	c.Flags = Flags{Unused: true, Interrupt: true}

	lo := c.Read(resetVectorLo)
	hi := c.Read(resetVectorLo + 1)
	c.ProgramCounter = word(hi, lo)

	c.M = 0
	c.AbsAddress = 0
	c.Cycles = 8
}

// NMI services a non-maskable interrupt: always taken, regardless of the
// Interrupt flag.
func (c *Cpu) NMI() {
	c.pushWord(c.ProgramCounter)

	status := c.Flags
	status.Break = false
	status.Unused = true
	c.push(status.Byte())

	c.Flags.Interrupt = true

	lo := c.Read(nmiVectorLo)
	hi := c.Read(nmiVectorLo + 1)
	c.ProgramCounter = word(hi, lo)

	c.Cycles = 7
}

// IRQ services a maskable interrupt, but only when the Interrupt flag is
// clear. This is the documented 6502 behavior.
func (c *Cpu) IRQ() {
	if c.Flags.Interrupt {
		return
	}

	c.pushWord(c.ProgramCounter)

	status := c.Flags
	status.Break = false
	status.Unused = true
	c.push(status.Byte())

	c.Flags.Interrupt = true

	lo := c.Read(irqVectorLo)
	hi := c.Read(irqVectorLo + 1)
	c.ProgramCounter = word(hi, lo)

	c.Cycles = 7
}

// Loop runs Clock forever, paced to the NES's ~1.79 MHz clock rate. Intended
// for a free-running host; callers that want to stop early should call
// Clock directly in their own loop instead.
func (c *Cpu) Loop() error {
	for {
		if err := c.Clock(); err != nil {
			return err
		}
		time.Sleep(Tick)
	}
}
