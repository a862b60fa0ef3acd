// Package browse implements an optional interactive terminal browser over
// the records and symbol table of the assembly the driver has just run
// (the -browse flag); it does not read a saved listing file. Grounded on the teacher's
// debugger/tui.go (panel layout, input capture, command line), repurposed
// from single-stepping a running CPU to paging a static listing.
package browse

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"vm16asm/ir"
	"vm16asm/symtab"
)

// Browser is the text user interface for paging through a finished
// assembly's listing and symbol table.
type Browser struct {
	App    *tview.Application
	Layout *tview.Flex

	ListingView *tview.TextView
	SymbolView  *tview.TextView
	StatusBar   *tview.InputField

	records []*ir.Record
	symbols *symtab.Symbols
}

// New builds a Browser over an already-assembled record stream and symbol
// table.
func New(records []*ir.Record, symbols *symtab.Symbols) *Browser {
	b := &Browser{
		App:     tview.NewApplication(),
		records: records,
		symbols: symbols,
	}
	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	return b
}

func (b *Browser) initializeViews() {
	b.ListingView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.ListingView.SetBorder(true).SetTitle(" Listing ")

	b.SymbolView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	b.StatusBar = tview.NewInputField().
		SetLabel("/ ").
		SetFieldWidth(0)
	b.StatusBar.SetBorder(true).SetTitle(" Jump to label (Enter), q to quit ")
	b.StatusBar.SetDoneFunc(b.handleJump)
}

func (b *Browser) buildLayout() {
	main := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.ListingView, 0, 3, false).
		AddItem(b.SymbolView, 0, 1, false)

	b.Layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, false).
		AddItem(b.StatusBar, 3, 0, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			b.App.Stop()
			return nil
		}
		if event.Rune() == 'q' && b.App.GetFocus() != b.StatusBar {
			b.App.Stop()
			return nil
		}
		return event
	})
}

func (b *Browser) handleJump(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	query := strings.TrimSpace(b.StatusBar.GetText())
	b.StatusBar.SetText("")
	if query == "q" || query == "quit" {
		b.App.Stop()
		return
	}
	if addr, ok := b.symbols.Lookup(query); ok {
		b.scrollToAddress(addr)
		return
	}
}

func (b *Browser) scrollToAddress(addr uint16) {
	for i, r := range b.records {
		if r.Type != ir.Comment && r.Address == ir.Word(addr) {
			b.ListingView.ScrollTo(i, 0)
			return
		}
	}
}

// Render populates both panels from the stored records and symbol table.
func (b *Browser) Render() {
	var listing strings.Builder
	for _, r := range b.records {
		switch r.Type {
		case ir.Comment:
			fmt.Fprintln(&listing, strings.TrimRight(r.Text, " \t\r"))
		default:
			fmt.Fprintf(&listing, "%04X: %-28s %s\n", r.Address, hexJoin(r.Opcodes), strings.TrimSpace(r.Text))
		}
	}
	b.ListingView.SetText(listing.String())

	var syms strings.Builder
	for name, addr := range b.symbols.All() {
		fmt.Fprintf(&syms, "%-24s = %04X\n", name, addr)
	}
	b.SymbolView.SetText(syms.String())
}

func hexJoin(words []ir.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%04X", uint16(w))
	}
	return strings.Join(parts, ", ")
}

// Run starts the interactive browser; it blocks until the user quits.
func (b *Browser) Run() error {
	b.Render()
	return b.App.SetRoot(b.Layout, true).SetFocus(b.StatusBar).Run()
}
