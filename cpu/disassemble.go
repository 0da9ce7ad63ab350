package cpu

import "fmt"

// addressingFormats renders an operand the way a reference 6502 disassembly
// would, keyed by AddressingMode.
var addressingFormats = map[AddressingMode]string{
	Immediate:   "#$%02X",
	ZeroPage:    "$%02X",
	ZeroPageX:   "$%02X,X",
	ZeroPageY:   "$%02X,Y",
	Absolute:    "$%04X",
	AbsoluteX:   "$%04X,X",
	AbsoluteY:   "$%04X,Y",
	Indirect:    "($%04X)",
	IndirectX:   "($%02X,X)",
	IndirectY:   "($%02X),Y",
	Relative:    "$%04X",
	Accumulator: "A",
	Implied:     "",
}

// operandSize reports how many bytes follow the opcode byte for a.
func operandSize(a AddressingMode) int {
	switch a {
	case Implied, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative:
		return 1
	default:
		return 2
	}
}

// Disassemble renders the instruction at pc as one line: address, raw
// bytes, mnemonic and operand, then the live register state. It does not
// advance the Cpu; it only reads through the Bus.
func (c *Cpu) Disassemble(pc uint16) string {
	b := c.Read(pc)
	op, ok := Opcodes[b]
	if !ok {
		return fmt.Sprintf("%04X  %02X       ???", pc, b)
	}

	size := operandSize(op.AddressingMode)
	raw := fmt.Sprintf("%02X", b)
	var operand string
	switch size {
	case 0:
		raw += "      "
	case 1:
		arg := c.Read(pc + 1)
		raw += fmt.Sprintf(" %02X   ", arg)
		operand = fmt.Sprintf(addressingFormats[op.AddressingMode], arg)
	case 2:
		lo := c.Read(pc + 1)
		hi := c.Read(pc + 2)
		raw += fmt.Sprintf(" %02X %02X", lo, hi)
		operand = fmt.Sprintf(addressingFormats[op.AddressingMode], word(hi, lo))
	}

	return fmt.Sprintf(
		"%04X  %s  %s %-10s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		pc, raw, op.Name, operand,
		c.Accumulator, c.X, c.Y, c.Flags.Byte(), c.Stack,
	)
}
