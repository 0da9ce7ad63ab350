// Package bus implements the CPU's view of the NES address space: a pure
// router between RAM, the PPU's register file, and the cartridge, with the
// mirroring the hardware itself performs before a device ever sees the
// address.
package bus

import (
	"gone/cartridge"
	"gone/mem"
	"gone/ppu"
)

const (
	ramAddrLo = 0x0000
	ramAddrHi = 0x1FFF
	ramMirror = 0x07FF

	ppuAddrLo = 0x2000
	ppuAddrHi = 0x3FFF
	ppuMirror = 0x0007

	cartridgePRGLo = 0x8000
	cartridgePRGHi = 0xFFFF
)

// Bus routes 16-bit addresses to RAM, the PPU register file, or the
// cartridge's PRG-ROM. It performs no buffering or DMA of its own.
type Bus struct {
	RAM       *mem.Memory
	PPU       *ppu.PPU
	Cartridge *cartridge.Cartridge
}

// New wires a Bus to its three collaborators. RAM is always 2 KiB, mirrored
// four times across $0000-$1FFF.
func New(ram *mem.Memory, p *ppu.PPU, cart *cartridge.Cartridge) *Bus {
	return &Bus{RAM: ram, PPU: p, Cartridge: cart}
}

// Read dispatches a CPU-initiated read. Addresses outside every mapped
// range are open bus and read as 0.
func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr >= ramAddrLo && addr <= ramAddrHi:
		return b.RAM.Read(addr & ramMirror)
	case addr >= ppuAddrLo && addr <= ppuAddrHi:
		return b.PPU.Read(addr & ppuMirror)
	case addr >= cartridgePRGLo && addr <= cartridgePRGHi:
		return b.Cartridge.PRGRead(addr)
	default:
		return 0
	}
}

// Write dispatches a CPU-initiated write. Writes to unmapped ranges are
// silently discarded, matching open-bus behavior.
func (b *Bus) Write(addr uint16, data byte) {
	switch {
	case addr >= ramAddrLo && addr <= ramAddrHi:
		b.RAM.Write(addr&ramMirror, data)
	case addr >= ppuAddrLo && addr <= ppuAddrHi:
		b.PPU.Write(addr&ppuMirror, data)
	case addr >= cartridgePRGLo && addr <= cartridgePRGHi:
		b.Cartridge.PRGWrite(addr, data)
	}
}
