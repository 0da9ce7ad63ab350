package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gone/errs"
)

func buildHeader(prgBanks, chrBanks, flags6, flags7 byte) []byte {
	h := make([]byte, headerLen)
	copy(h, inesMagic[:])
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = flags6
	h[7] = flags7
	return h
}

func TestLoadRejectsShortHeader(t *testing.T) {
	_, err := Load([]byte{0x4E, 0x45, 0x53})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCartridgeHeaderSize)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildHeader(1, 1, 0, 0)
	data[0] = 'X'
	_, err := Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidNesFile)
}

func TestLoadRejectsNonZeroMapper(t *testing.T) {
	data := buildHeader(1, 1, 0x10, 0) // mapper = 1
	_, err := Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCartridgeMapper)
}

func TestLoadSingleBankMirrorsPRG(t *testing.T) {
	data := buildHeader(1, 1, 0, 0)
	prg := make([]byte, prgBankLen)
	prg[0] = 0xEA
	prg[prgBankLen-1] = 0x42
	chr := make([]byte, chrBankLen)
	data = append(data, prg...)
	data = append(data, chr...)

	c, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, byte(0xEA), c.PRGRead(0x8000))
	assert.Equal(t, byte(0x42), c.PRGRead(0xBFFF))
	// A single 16 KiB bank mirrors across the full $8000-$FFFF window.
	assert.Equal(t, byte(0xEA), c.PRGRead(0xC000))
	assert.Equal(t, byte(0x42), c.PRGRead(0xFFFF))
}

func TestLoadTwoBanksDoNotMirror(t *testing.T) {
	data := buildHeader(2, 1, 0, 0)
	prg := make([]byte, 2*prgBankLen)
	prg[0] = 0x11
	prg[prgBankLen] = 0x22 // start of the second bank
	data = append(data, prg...)
	data = append(data, make([]byte, chrBankLen)...)

	c, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, byte(0x11), c.PRGRead(0x8000))
	assert.Equal(t, byte(0x22), c.PRGRead(0xC000))
}

func TestLoadTrainerShiftsOffset(t *testing.T) {
	data := buildHeader(1, 1, 0x04, 0) // trainer bit set
	trainer := make([]byte, trainerLen)
	prg := make([]byte, prgBankLen)
	prg[0] = 0x77
	data = append(data, trainer...)
	data = append(data, prg...)
	data = append(data, make([]byte, chrBankLen)...)

	c, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, byte(0x77), c.PRGRead(0x8000))
}

func TestLoadZeroChrBanksSynthesizesRAM(t *testing.T) {
	data := buildHeader(1, 0, 0, 0)
	data = append(data, make([]byte, prgBankLen)...)

	c, err := Load(data)
	require.NoError(t, err)

	c.CHRWrite(0x0000, 0x55)
	assert.Equal(t, byte(0x55), c.CHRRead(0x0000))
}

func TestCHRROMIsNotWritable(t *testing.T) {
	data := buildHeader(1, 1, 0, 0)
	data = append(data, make([]byte, prgBankLen)...)
	chr := make([]byte, chrBankLen)
	chr[0] = 0x33
	data = append(data, chr...)

	c, err := Load(data)
	require.NoError(t, err)

	c.CHRWrite(0x0000, 0xAA)
	assert.Equal(t, byte(0x33), c.CHRRead(0x0000))
}

func TestNewRawPRG(t *testing.T) {
	prg := make([]byte, prgBankLen)
	prg[0] = 0x9A
	c := NewRawPRG(prg)
	assert.Equal(t, byte(0x9A), c.PRGRead(0x8000))
}
