package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gone/bus"
	"gone/cartridge"
	"gone/errs"
	"gone/mem"
	"gone/ppu"
)

// newTestCpu builds a Cpu with program loaded at $8000 (a single 16 KiB PRG
// bank, mirrored across $8000-$FFFF) and the reset vector pointed at $8000.
func newTestCpu(t *testing.T, program []byte) *Cpu {
	t.Helper()

	prg := make([]byte, 16*1024)
	copy(prg, program)
	prg[0x3ffc] = 0x00
	prg[0x3ffd] = 0x80

	cart := cartridge.NewRawPRG(prg)
	b := bus.New(mem.New(2048), ppu.New(), cart)
	return New(b)
}

// run steps the Cpu n whole instructions (not n clock cycles).
func run(t *testing.T, c *Cpu, n int) {
	t.Helper()
	for range n {
		require.NoError(t, c.step())
	}
}

func TestReset(t *testing.T) {
	c := newTestCpu(t, nil)
	assert.Equal(t, uint16(0x8000), c.ProgramCounter)
	assert.Equal(t, byte(0xfd), c.Stack)
	assert.True(t, c.Flags.Unused)
	assert.True(t, c.Flags.Interrupt)
}

func TestResetVectorArbitrary(t *testing.T) {
	// Scenario 3: writing an arbitrary reset vector relocates PC.
	prg := make([]byte, 16*1024)
	prg[0x3ffc] = 0x34
	prg[0x3ffd] = 0x12
	cart := cartridge.NewRawPRG(prg)
	b := bus.New(mem.New(2048), ppu.New(), cart)
	c := New(b)

	assert.Equal(t, uint16(0x1234), c.ProgramCounter)
	assert.Equal(t, byte(0xfd), c.Stack)
	assert.True(t, c.Flags.Unused)
	assert.True(t, c.Flags.Interrupt)
}

func TestLoadProgram(t *testing.T) {
	c := newTestCpu(t, nil)
	c.LoadProgram([]byte("a9 2a"), 0x0000)
	assert.Equal(t, byte(0xa9), c.Read(0x0000))
	assert.Equal(t, byte(0x2a), c.Read(0x0001))
}

// TestMultiplier runs end-to-end scenario 1: LDX #3; LDA #0; loop: CLC; ADC
// #$0A; DEX; BNE loop; STA $50; BRK.
func TestMultiplier(t *testing.T) {
	program := []byte{
		0xA2, 0x03, // LDX #$03
		0xA9, 0x00, // LDA #$00
		0x18,       // loop: CLC
		0x69, 0x0A, // ADC #$0A
		0xCA,       // DEX
		0xD0, 0xFA, // BNE loop
		0x85, 0x50, // STA $50
		0x00, // BRK
	}
	c := newTestCpu(t, program)

	// LDX, LDA, then 3x (CLC, ADC, DEX, BNE), then STA.
	run(t, c, 2+3*4+1)

	assert.Equal(t, byte(0x1e), c.Read(0x0050)) // 30
	assert.Equal(t, byte(0), c.X)
	assert.True(t, c.Flags.Zero)
	assert.False(t, c.Flags.Negative)
}

// TestIndexedStore runs end-to-end scenario 2.
func TestIndexedStore(t *testing.T) {
	program := []byte{
		0xA2, 0x0A, // LDX #$0A
		0x8E, 0x00, 0x00, // STX $0000
		0xA2, 0x03, // LDX #$03
		0x8E, 0x01, 0x00, // STX $0001
		0xAC, 0x00, 0x00, // LDY $0000
		0xA9, 0x00, // LDA #$00
		0x18,       // CLC
		0x6D, 0x01, 0x00, // loop: ADC $0001
		0x88,       // DEY
		0xD0, 0xFA, // BNE loop
		0x8D, 0x02, 0x00, // STA $0002
	}
	c := newTestCpu(t, program)

	// 7 instructions before the loop, 10 iterations of 3 (Y starts at 10),
	// then the final STA.
	run(t, c, 7+10*3+1)

	assert.Equal(t, byte(0x0a), c.Read(0x0000))
	assert.Equal(t, byte(0x03), c.Read(0x0001))
	assert.Equal(t, byte(0x1e), c.Read(0x0002))
	assert.Equal(t, byte(0), c.Y)
}

// TestIndirectJmpPageWrapBug runs end-to-end scenario 4: the documented
// hardware bug where JMP ($xxFF) fetches its high byte from the start of
// the same page instead of the next one.
func TestIndirectJmpPageWrapBug(t *testing.T) {
	program := []byte{0x6C, 0xFF, 0x02} // JMP ($02FF)
	c := newTestCpu(t, program)

	c.Write(0x02ff, 0x00)
	c.Write(0x0300, 0x40) // would be used if the bug were absent
	c.Write(0x0200, 0x80) // used instead, due to the bug

	run(t, c, 1)

	assert.Equal(t, uint16(0x8000), c.ProgramCounter)
}

// TestStackWrap runs end-to-end scenario 5: PHA/PLA around a stack-pointer
// wrap.
func TestStackWrap(t *testing.T) {
	program := []byte{
		0xA9, 0x42, // LDA #$42
		0x48, // PHA
		0xA9, 0x00, // LDA #$00
		0x68, // PLA
	}
	c := newTestCpu(t, program)
	c.Stack = 0x00

	run(t, c, 1) // LDA #$42
	run(t, c, 1) // PHA
	assert.Equal(t, byte(0xff), c.Stack)
	assert.Equal(t, byte(0x42), c.Read(0x0100))

	run(t, c, 1) // LDA #$00
	run(t, c, 1) // PLA
	assert.Equal(t, byte(0x00), c.Stack)
	assert.Equal(t, byte(0x42), c.Accumulator)
}

// TestINesReject runs end-to-end scenario 6: a header declaring a mapper
// other than 0 is rejected.
func TestINesReject(t *testing.T) {
	data := make([]byte, 16)
	copy(data, []byte("NES\x1a"))
	data[6] = 0x10 // byte 6 high nibble = 1 -> mapper ID 1

	_, err := cartridge.Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCartridgeMapper)
}

func TestInvalidOpcode(t *testing.T) {
	c := newTestCpu(t, []byte{0x02}) // undocumented/illegal
	err := c.step()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidOpcode)
}

func TestADCSBCInverse(t *testing.T) {
	for a := 0; a < 256; a += 17 {
		for m := 0; m < 256; m += 23 {
			c := newTestCpu(t, nil)
			c.Accumulator = byte(a)
			c.M = byte(m)
			c.Flags.Carry = false // ADC with no carry-in: A' = A+M
			c.ADC()
			c.M = byte(m)
			c.Flags.Carry = true // SBC with no borrow: A'' = A'-M
			c.SBC()
			assert.Equal(t, byte(a), c.Accumulator)
		}
	}
}

func TestBranchTaken(t *testing.T) {
	program := []byte{
		0xA9, 0x00, // LDA #$00
		0xF0, 0x02, // BEQ +2
		0xA9, 0xFF, // LDA #$FF (skipped)
		0xA9, 0x7F, // LDA #$7F
	}
	c := newTestCpu(t, program)
	run(t, c, 1) // LDA #$00 -> Z set
	run(t, c, 1) // BEQ taken
	run(t, c, 1) // lands on LDA #$7F
	assert.Equal(t, byte(0x7f), c.Accumulator)
}

func TestRamMirroring(t *testing.T) {
	c := newTestCpu(t, nil)
	c.Write(0x0000, 0x99)
	assert.Equal(t, byte(0x99), c.Read(0x0800))
	assert.Equal(t, byte(0x99), c.Read(0x1000))
	assert.Equal(t, byte(0x99), c.Read(0x1800))
}

func BenchmarkStep(b *testing.B) {
	program := []byte{0xEA} // NOP
	prg := make([]byte, 16*1024)
	copy(prg, program)
	prg[0x3ffc] = 0x00
	prg[0x3ffd] = 0x80
	cart := cartridge.NewRawPRG(prg)
	bs := bus.New(mem.New(2048), ppu.New(), cart)
	c := New(bs)

	b.ResetTimer()
	for range b.N {
		c.ProgramCounter = 0x8000
		_ = c.step()
	}
}
