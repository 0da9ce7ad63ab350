// Package errs holds the small set of sentinel errors that can escape the
// emulator core. Everything else (bad addresses, full buffers) is a
// programmer error, not something callers are expected to branch on.
package errs

import "errors"

var (
	// ErrInvalidOpcode is returned by Cpu.Clock when the byte at the
	// program counter does not correspond to a documented instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrInvalidCartridgeHeaderSize is returned when an iNES image is
	// shorter than the 16-byte header.
	ErrInvalidCartridgeHeaderSize = errors.New("invalid cartridge header size")

	// ErrInvalidNesFile is returned when the header magic bytes are not
	// "NES\x1A".
	ErrInvalidNesFile = errors.New("invalid nes file")

	// ErrInvalidCartridgeMapper is returned when the cartridge declares a
	// mapper other than 0.
	ErrInvalidCartridgeMapper = errors.New("invalid cartridge mapper")
)
