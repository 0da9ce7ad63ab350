package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// model is the bubbletea state for the interactive instruction-stepper. It
// wraps an already-constructed Cpu -- Bus, cartridge and reset vector are
// all the caller's responsibility; the debugger only steps and renders.
type model struct {
	cpu *Cpu

	prevPC uint16
	error  error
}

// Init performs no side effects; the Cpu arrives already reset with its
// cartridge loaded.
func (m model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.cpu.ProgramCounter
			if err := m.cpu.step(); err != nil {
				m.error = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders 16 bytes starting at start as one line, reading
// through the Bus (so RAM mirroring, PPU registers, and cartridge PRG all
// show what the Cpu would actually see). The current PC is highlighted.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.cpu.Read(addr)
		if addr == m.cpu.ProgramCounter {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{
		m.cpu.Flags.Negative,
		m.cpu.Flags.Overflow,
		m.cpu.Flags.Unused,
		m.cpu.Flags.Break,
		m.cpu.Flags.Decimal,
		m.cpu.Flags.Interrupt,
		m.cpu.Flags.Zero,
		m.cpu.Flags.Carry,
	} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %x (%x)
 M: %x
 A: %x
 X: %x
 Y: %x
N V U B D I Z C
`,
		m.cpu.ProgramCounter,
		m.prevPC,
		m.cpu.M,
		m.cpu.Accumulator,
		m.cpu.X,
		m.cpu.Y,
	) + flags
}

// pageTable renders the zero page, the stack page, and a handful of pages
// around the current PC.
func (m model) pageTable() string {
	header := "page | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}

	lines := []string{header}

	pcPage := m.cpu.ProgramCounter &^ 0x0f
	offsets := []uint16{
		0x0000, 0x0010, 0x0100, // zero page, stack page
		pcPage, pcPage + 0x10, pcPage + 0x20,
	}
	for _, addr := range offsets {
		lines = append(lines, m.renderPage(addr))
	}
	return strings.Join(lines, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(Opcodes[m.cpu.Read(m.cpu.ProgramCounter)]),
	)
}

// Debug starts an interactive TUI that single-steps c one instruction at a
// time on space or "j", rendering registers, flags, and the pages around
// the program counter. c must already be constructed and reset.
func (c *Cpu) Debug() {
	m, err := tea.NewProgram(model{cpu: c}).Run()
	if err != nil {
		panic(err)
	}
	x := m.(model)
	if x.error != nil {
		fmt.Println("Error:", x.error)
	}
}
