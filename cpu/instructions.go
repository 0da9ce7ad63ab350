package cpu

// All function signatures trace back to
// https://www.nesdev.org/obelisk-6502-guide/reference.html -- read as:
//
//	A,Z,N = A&M
//	[target],[flags...] = [op]

// setZN sets the Zero and Negative flags from an arbitrary result byte. This
// replaces always-check-the-Accumulator helpers with one that takes the
// byte actually produced by the instruction (DEC/INC touch memory, not A).
func (c *Cpu) setZN(result byte) {
	c.Flags.Zero = result == 0
	c.Flags.Negative = result&0x80 > 0
}

// ADC - Add with Carry
func (c *Cpu) ADC() byte {
	carry := uint16(0)
	if c.Flags.Carry {
		carry = 1
	}
	sum := uint16(c.Accumulator) + uint16(c.M) + carry

	c.Flags.Carry = sum > 0xff
	// Overflow: set when the operands share a sign but the result's sign
	// differs from theirs.
	c.Flags.Overflow = (c.Accumulator^byte(sum))&(c.M^byte(sum))&0x80 != 0

	c.Accumulator = byte(sum)
	c.setZN(c.Accumulator)
	return 0
}

// AND - Logical AND
func (c *Cpu) AND() byte {
	c.Accumulator &= c.M
	c.setZN(c.Accumulator)
	return 0
}

// ASL - Arithmetic Shift Left
func (c *Cpu) ASL() byte {
	c.Flags.Carry = c.M&0x80 > 0 // old bit 7
	c.M <<= 1
	c.setZN(c.M)
	c.writeback()
	return 0
}

// BCC - Branch if Carry Clear
func (c *Cpu) BCC() byte {
	if !c.Flags.Carry {
		c.takeBranch()
	}
	return 0
}

// BCS - Branch if Carry Set
func (c *Cpu) BCS() byte {
	if c.Flags.Carry {
		c.takeBranch()
	}
	return 0
}

// BEQ - Branch if Equal
func (c *Cpu) BEQ() byte {
	if c.Flags.Zero {
		c.takeBranch()
	}
	return 0
}

// BIT - Bit Test
func (c *Cpu) BIT() byte {
	c.Flags.Zero = c.M&c.Accumulator == 0
	c.Flags.Negative = c.M&0x80 > 0
	c.Flags.Overflow = c.M&0x40 > 0
	return 0
}

// BMI - Branch if Minus
func (c *Cpu) BMI() byte {
	if c.Flags.Negative {
		c.takeBranch()
	}
	return 0
}

// BNE - Branch if Not Equal
func (c *Cpu) BNE() byte {
	if !c.Flags.Zero {
		c.takeBranch()
	}
	return 0
}

// BPL - Branch if Positive
func (c *Cpu) BPL() byte {
	if !c.Flags.Negative {
		c.takeBranch()
	}
	return 0
}

// BRK - Force Interrupt
func (c *Cpu) BRK() byte {
	c.ProgramCounter++
	c.pushWord(c.ProgramCounter)

	status := c.Flags
	status.Break = true
	status.Unused = true
	c.push(status.Byte())

	c.Flags.Interrupt = true

	lo := c.Read(irqVectorLo)
	hi := c.Read(irqVectorLo + 1)
	c.ProgramCounter = word(hi, lo)
	return 0
}

// BVC - Branch if Overflow Clear
func (c *Cpu) BVC() byte {
	if !c.Flags.Overflow {
		c.takeBranch()
	}
	return 0
}

// BVS - Branch if Overflow Set
func (c *Cpu) BVS() byte {
	if c.Flags.Overflow {
		c.takeBranch()
	}
	return 0
}

// CLC - Clear Carry Flag
func (c *Cpu) CLC() byte {
	c.Flags.Carry = false
	return 0
}

// CLD - Clear Decimal Mode
func (c *Cpu) CLD() byte {
	c.Flags.Decimal = false
	return 0
}

// CLI - Clear Interrupt Disable
func (c *Cpu) CLI() byte {
	c.Flags.Interrupt = false
	return 0
}

// CLV - Clear Overflow Flag
func (c *Cpu) CLV() byte {
	c.Flags.Overflow = false
	return 0
}

// CMP - Compare
func (c *Cpu) CMP() byte {
	c.Flags.Carry = c.Accumulator >= c.M
	c.setZN(c.Accumulator - c.M)
	return 0
}

// CPX - Compare X Register
func (c *Cpu) CPX() byte {
	c.Flags.Carry = c.X >= c.M
	c.setZN(c.X - c.M)
	return 0
}

// CPY - Compare Y Register
func (c *Cpu) CPY() byte {
	c.Flags.Carry = c.Y >= c.M
	c.setZN(c.Y - c.M)
	return 0
}

// DEC - Decrement Memory
func (c *Cpu) DEC() byte {
	c.M--
	c.setZN(c.M)
	c.writeback()
	return 0
}

// DEX - Decrement X Register
func (c *Cpu) DEX() byte {
	c.X--
	c.setZN(c.X)
	return 0
}

// DEY - Decrement Y Register
func (c *Cpu) DEY() byte {
	c.Y--
	c.setZN(c.Y)
	return 0
}

// EOR - Exclusive OR
func (c *Cpu) EOR() byte {
	c.Accumulator ^= c.M
	c.setZN(c.Accumulator)
	return 0
}

// INC - Increment Memory
func (c *Cpu) INC() byte {
	c.M++
	c.setZN(c.M)
	c.writeback()
	return 0
}

// INX - Increment X Register
func (c *Cpu) INX() byte {
	c.X++
	c.setZN(c.X)
	return 0
}

// INY - Increment Y Register
func (c *Cpu) INY() byte {
	c.Y++
	c.setZN(c.Y)
	return 0
}

// JMP - Jump
func (c *Cpu) JMP() byte {
	c.ProgramCounter = c.AbsAddress
	return 0
}

// JSR - Jump to Subroutine
func (c *Cpu) JSR() byte {
	// The return address pushed is the last byte of the JSR instruction
	// (AbsAddress's operand), not the next one; RTS corrects for this.
	c.pushWord(c.ProgramCounter - 1)
	c.ProgramCounter = c.AbsAddress
	return 0
}

// LDA - Load Accumulator
func (c *Cpu) LDA() byte {
	c.Accumulator = c.M
	c.setZN(c.Accumulator)
	return 0
}

// LDX - Load X Register
func (c *Cpu) LDX() byte {
	c.X = c.M
	c.setZN(c.X)
	return 0
}

// LDY - Load Y Register
func (c *Cpu) LDY() byte {
	c.Y = c.M
	c.setZN(c.Y)
	return 0
}

// LSR - Logical Shift Right
func (c *Cpu) LSR() byte {
	c.Flags.Carry = c.M&0x01 > 0 // old bit 0
	c.M >>= 1
	c.setZN(c.M)
	c.writeback()
	return 0
}

// NOP - No Operation
func (c *Cpu) NOP() byte {
	return 0
}

// ORA - Logical Inclusive OR
func (c *Cpu) ORA() byte {
	c.Accumulator |= c.M
	c.setZN(c.Accumulator)
	return 0
}

// PHA - Push Accumulator
func (c *Cpu) PHA() byte {
	c.push(c.Accumulator)
	return 0
}

// PHP - Push Processor Status
func (c *Cpu) PHP() byte {
	status := c.Flags
	status.Break = true
	status.Unused = true
	c.push(status.Byte())
	return 0
}

// PLA - Pull Accumulator
func (c *Cpu) PLA() byte {
	c.Accumulator = c.pull()
	c.setZN(c.Accumulator)
	return 0
}

// PLP - Pull Processor Status
func (c *Cpu) PLP() byte {
	c.Flags = FlagsFromByte(c.pull())
	c.Flags.Break = false
	return 0
}

// ROL - Rotate Left
func (c *Cpu) ROL() byte {
	oldCarry := c.Flags.Carry
	c.Flags.Carry = c.M&0x80 > 0
	c.M <<= 1
	if oldCarry {
		c.M |= 0x01
	}
	c.setZN(c.M)
	c.writeback()
	return 0
}

// ROR - Rotate Right
func (c *Cpu) ROR() byte {
	oldCarry := c.Flags.Carry
	c.Flags.Carry = c.M&0x01 > 0
	c.M >>= 1
	if oldCarry {
		c.M |= 0x80
	}
	c.setZN(c.M)
	c.writeback()
	return 0
}

// RTI - Return from Interrupt
func (c *Cpu) RTI() byte {
	c.Flags = FlagsFromByte(c.pull())
	c.Flags.Break = false
	c.ProgramCounter = c.pullWord()
	return 0
}

// RTS - Return from Subroutine
func (c *Cpu) RTS() byte {
	c.ProgramCounter = c.pullWord() + 1
	return 0
}

// SBC - Subtract with Carry
func (c *Cpu) SBC() byte {
	// Implemented as ADC against the ones' complement of the operand,
	// the standard trick that makes the shared carry/overflow logic work
	// for both directions.
	inverted := c.M ^ 0xff
	c.M = inverted
	return c.ADC()
}

// SEC - Set Carry Flag
func (c *Cpu) SEC() byte {
	c.Flags.Carry = true
	return 0
}

// SED - Set Decimal Flag
func (c *Cpu) SED() byte {
	c.Flags.Decimal = true
	return 0
}

// SEI - Set Interrupt Disable
func (c *Cpu) SEI() byte {
	c.Flags.Interrupt = true
	return 0
}

// STA - Store Accumulator
func (c *Cpu) STA() byte {
	c.M = c.Accumulator
	c.writeback()
	return 0
}

// STX - Store X Register
func (c *Cpu) STX() byte {
	c.M = c.X
	c.writeback()
	return 0
}

// STY - Store Y Register
func (c *Cpu) STY() byte {
	c.M = c.Y
	c.writeback()
	return 0
}

// TAX - Transfer Accumulator to X
func (c *Cpu) TAX() byte {
	c.X = c.Accumulator
	c.setZN(c.X)
	return 0
}

// TAY - Transfer Accumulator to Y
func (c *Cpu) TAY() byte {
	c.Y = c.Accumulator
	c.setZN(c.Y)
	return 0
}

// TSX - Transfer Stack Pointer to X
func (c *Cpu) TSX() byte {
	c.X = c.Stack
	c.setZN(c.X)
	return 0
}

// TXA - Transfer X to Accumulator
func (c *Cpu) TXA() byte {
	c.Accumulator = c.X
	c.setZN(c.Accumulator)
	return 0
}

// TXS - Transfer X to Stack Pointer
func (c *Cpu) TXS() byte {
	c.Stack = c.X
	return 0
}

// TYA - Transfer Y to Accumulator
func (c *Cpu) TYA() byte {
	c.Accumulator = c.Y
	c.setZN(c.Accumulator)
	return 0
}
