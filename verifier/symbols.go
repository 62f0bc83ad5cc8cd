package verifier

import (
	"strings"
	"unicode"
)

// StatusSymbol is the single-rune verdict persisted for one run in one
// pipeline stage. The zero value means no verdict has been recorded yet.
// Runes outside the alphabet below are carried as-is: the ledger format has
// grown columns across revisions and foreign symbols must survive a rewrite.
type StatusSymbol rune

const (
	SymbolNone         StatusSymbol = 0
	SymbolNotCompiled  StatusSymbol = '⏭' // upstream compile failed, run skipped
	SymbolBuildBlocked StatusSymbol = '🔨' // image build failed, retryable
	SymbolRunBlocked   StatusSymbol = '⬛' // container or smoke failure, retryable
	SymbolSkipped      StatusSymbol = '🚫' // missing prerequisite, not retryable
	SymbolSuccess      StatusSymbol = '🟢' // verified healthy
)

// Markers used by the upstream seeding stages in the converted/compiled
// columns.
const (
	runeConverted = '✅'
	runeFailed    = '❌'
)

// Some tools write emoji with a trailing variation selector; it carries no
// meaning and must not count as a run position.
const variationSelector = '️'

// ParseSymbols decodes a ledger cell into one symbol per run index.
func ParseSymbols(cell string) []StatusSymbol {
	var symbols []StatusSymbol
	for _, r := range cell {
		if r == variationSelector || unicode.IsSpace(r) {
			continue
		}
		symbols = append(symbols, StatusSymbol(r))
	}
	return symbols
}

// FormatSymbols renders a symbol sequence the way it is stored in a cell.
// Unrecorded positions at the tail produce nothing.
func FormatSymbols(symbols []StatusSymbol) string {
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(s.String())
	}
	return b.String()
}

// String renders the symbol in its persisted form.
func (s StatusSymbol) String() string {
	switch s {
	case SymbolNone:
		return ""
	case SymbolNotCompiled:
		// Written with the variation selector for terminal rendering parity
		// with the seeding tools; parsing strips it again.
		return "⏭️"
	}
	return string(rune(s))
}

// Retryable reports whether a stored verdict may be attempted again. Absent
// verdicts and the two blocked markers are eligible; everything else is
// sticky, including runes outside the alphabet.
func (s StatusSymbol) Retryable() bool {
	return s == SymbolNone || s == SymbolBuildBlocked || s == SymbolRunBlocked
}

// countConverted counts completed conversion attempts in a converted cell,
// which defines how many run directories exist for the row.
func countConverted(cell string) int {
	return strings.Count(cell, string(runeConverted))
}

// parseCompiled decodes a compiled cell into one flag per run index.
func parseCompiled(cell string) []bool {
	var compiled []bool
	for _, r := range cell {
		if r == variationSelector || unicode.IsSpace(r) {
			continue
		}
		compiled = append(compiled, r == runeConverted)
	}
	return compiled
}
