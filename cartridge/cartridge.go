// Package cartridge parses an iNES ROM image and exposes the PRG-ROM and
// CHR-ROM regions through a Mapper 0 (NROM) address translation.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"gone/errs"
	"gone/mask"
	"gone/mem"
)

const (
	headerLen  = 16
	trainerLen = 512
	prgBankLen = 16 * 1024
	chrBankLen = 8 * 1024
)

var inesMagic = [4]byte{'N', 'E', 'S', 0x1A}

// header mirrors the 16-byte iNES header, byte for byte.
type header struct {
	Magic    [4]byte
	PRGBanks byte
	CHRBanks byte
	Flags6   byte
	Flags7   byte
	_        [8]byte
}

// Cartridge owns a loaded ROM's PRG-ROM and CHR-ROM regions and translates
// CPU/PPU addresses into offsets within them via Mapper 0.
type Cartridge struct {
	PRGBanks byte
	CHRBanks byte

	MirrorVertical bool
	BatteryBacked  bool
	FourScreen     bool
	chrIsRAM       bool

	prg *mem.Memory
	chr *mem.Memory
}

// mapperID reassembles the mapper number per the iNES format: the high
// nibble of Flags6 is its low nibble, the high nibble of Flags7 its high one.
func mapperID(h header) byte {
	lo := mask.First(h.Flags6, mask.I4)
	hi := mask.First(h.Flags7, mask.I4)
	return hi<<4 | lo
}

// Load parses an iNES image and constructs the Cartridge it describes. Only
// Mapper 0 (NROM) is supported.
func Load(data []byte) (*Cartridge, error) {
	if len(data) < headerLen {
		return nil, errs.ErrInvalidCartridgeHeaderSize
	}

	var h header
	r := bytes.NewReader(data[:headerLen])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading ines header: %w", err)
	}
	if h.Magic != inesMagic {
		return nil, errs.ErrInvalidNesFile
	}

	if id := mapperID(h); id != 0 {
		return nil, fmt.Errorf("%w: mapper %d", errs.ErrInvalidCartridgeMapper, id)
	}

	offset := headerLen
	if mask.IsSet(h.Flags6, mask.I6) { // trainer present
		offset += trainerLen
	}

	prgSize := int(h.PRGBanks) * prgBankLen
	prgEnd := offset + prgSize
	if prgEnd > len(data) {
		return nil, fmt.Errorf("%w: prg region truncated", errs.ErrInvalidNesFile)
	}
	prg := mem.New(prgSize)
	prg.WriteChunk(0, data[offset:prgEnd])

	chrIsRAM := h.CHRBanks == 0
	chrSize := int(h.CHRBanks) * chrBankLen
	var chr *mem.Memory
	if chrIsRAM {
		chr = mem.New(chrBankLen)
	} else {
		chrEnd := prgEnd + chrSize
		if chrEnd > len(data) {
			return nil, fmt.Errorf("%w: chr region truncated", errs.ErrInvalidNesFile)
		}
		chr = mem.New(chrSize)
		chr.WriteChunk(0, data[prgEnd:chrEnd])
	}

	return &Cartridge{
		PRGBanks:       h.PRGBanks,
		CHRBanks:       h.CHRBanks,
		MirrorVertical: mask.IsSet(h.Flags6, mask.I8),
		BatteryBacked:  mask.IsSet(h.Flags6, mask.I7),
		FourScreen:     mask.IsSet(h.Flags6, mask.I5),
		chrIsRAM:       chrIsRAM,
		prg:            prg,
		chr:            chr,
	}, nil
}

// prgAddress applies Mapper 0's PRG translation: a single 16 KiB bank is
// mirrored across the full $8000-$FFFF window, two banks fill it exactly.
func (c *Cartridge) prgAddress(addr uint16) uint16 {
	if c.PRGBanks > 1 {
		return addr & 0x7FFF
	}
	return addr & 0x3FFF
}

// PRGRead reads a byte from PRG-ROM at a raw CPU address in $8000-$FFFF.
func (c *Cartridge) PRGRead(addr uint16) byte {
	return c.prg.Read(c.prgAddress(addr))
}

// PRGWrite is a no-op: PRG-ROM is not writable under Mapper 0.
func (c *Cartridge) PRGWrite(addr uint16, data byte) {}

// CHRRead reads a byte from CHR-ROM/CHR-RAM at a raw PPU address in
// $0000-$1FFF. Mapper 0's CHR translation is the identity function.
func (c *Cartridge) CHRRead(addr uint16) byte {
	return c.chr.Read(addr)
}

// CHRWrite writes to CHR-RAM when the cartridge has no CHR-ROM banks; it is
// a no-op against real CHR-ROM, which is immutable.
func (c *Cartridge) CHRWrite(addr uint16, data byte) {
	if c.chrIsRAM {
		c.chr.Write(addr, data)
	}
}

// NewRawPRG builds a single-bank (16 KiB) Mapper 0 cartridge directly from
// PRG bytes, without an iNES header or file. CHR is backed by a synthesized
// writable bank, as for a header declaring zero CHR banks. Intended for
// tooling that pokes raw machine code in directly -- the debugger and
// tests -- rather than loading a ROM file.
func NewRawPRG(prg []byte) *Cartridge {
	m := mem.New(prgBankLen)
	m.WriteChunk(0, prg)
	return &Cartridge{
		PRGBanks: 1,
		CHRBanks: 0,
		chrIsRAM: true,
		prg:      m,
		chr:      mem.New(chrBankLen),
	}
}

// ReadINES is a convenience wrapper around Load for callers with an
// io.Reader (e.g. an opened ROM file) rather than an in-memory buffer.
func ReadINES(r io.Reader) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	return Load(data)
}
