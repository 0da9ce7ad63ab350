package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gone/cartridge"
	"gone/mem"
	"gone/ppu"
)

func newTestBus() *Bus {
	prg := make([]byte, 16*1024)
	return New(mem.New(2048), ppu.New(), cartridge.NewRawPRG(prg))
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus()
	b.Write(0x0042, 0x7a)

	assert.Equal(t, byte(0x7a), b.Read(0x0042))
	assert.Equal(t, byte(0x7a), b.Read(0x0842))
	assert.Equal(t, byte(0x7a), b.Read(0x1042))
	assert.Equal(t, byte(0x7a), b.Read(0x1842))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus()
	b.Write(0x2001, 0x55) // PPUMASK

	assert.Equal(t, byte(0x55), b.Read(0x2001))
	assert.Equal(t, byte(0x55), b.Read(0x2009))
	assert.Equal(t, byte(0x55), b.Read(0x3FF9))
}

func TestCartridgePassthrough(t *testing.T) {
	prg := make([]byte, 16*1024)
	prg[0] = 0x9A
	b := New(mem.New(2048), ppu.New(), cartridge.NewRawPRG(prg))

	assert.Equal(t, byte(0x9A), b.Read(0x8000))
	// single-bank NROM mirrors across the full $8000-$FFFF window.
	assert.Equal(t, byte(0x9A), b.Read(0xC000))
}

func TestCartridgeWriteIgnored(t *testing.T) {
	b := newTestBus()
	before := b.Read(0x8000)
	b.Write(0x8000, before+1)
	assert.Equal(t, before, b.Read(0x8000))
}

func TestOpenBusReadsZero(t *testing.T) {
	b := newTestBus()
	assert.Equal(t, byte(0), b.Read(0x4020))
	assert.Equal(t, byte(0), b.Read(0x6000))
}

func TestOpenBusWriteIsNoop(t *testing.T) {
	b := newTestBus()
	b.Write(0x4020, 0xFF) // should not panic, and nothing should observe it
	assert.Equal(t, byte(0), b.Read(0x4020))
}
