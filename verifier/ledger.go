package verifier

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Cell indexes after splitting a table row on "|". Index 0 is the text
// before the leading pipe, 1..5 the key, 6..9 the per-run symbol columns.
const (
	cellTool       = 1
	cellModel      = 2
	cellLayer      = 3
	cellConversion = 4
	cellApp        = 5
	cellConverted  = 7
	cellCompiled   = 8
	cellVerified   = 9
	cellNotes      = 10
)

// Ledger is the persisted verification table: a markdown pipe table keyed by
// ConversionKey whose trailing cells hold one symbol per run index. Lines
// that are not well-formed data rows (headers, separators, prose, rows from
// other table revisions) round-trip byte-identically.
type Ledger struct {
	path  string
	lines []string
}

// Row is one well-formed data row of the ledger.
type Row struct {
	Key       ConversionKey
	Converted string
	Compiled  string
	Verified  string
	Line      int // index into the ledger's lines
}

// Runs is the number of run directories the row accounts for.
func (r Row) Runs() int {
	return countConverted(r.Converted)
}

// CompiledOK reports whether the 1-based run compiled upstream. Missing
// positions count as not compiled.
func (r Row) CompiledOK(run int) bool {
	compiled := parseCompiled(r.Compiled)
	return run >= 1 && run <= len(compiled) && compiled[run-1]
}

// VerifiedSymbol returns the stored verdict for the 1-based run, or
// SymbolNone when the position has not been recorded.
func (r Row) VerifiedSymbol(run int) StatusSymbol {
	symbols := ParseSymbols(r.Verified)
	if run < 1 || run > len(symbols) {
		return SymbolNone
	}
	return symbols[run-1]
}

// LoadLedger reads the results table. A missing file yields an empty ledger;
// the first Save creates it.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Ledger{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}

	content := strings.TrimRight(string(data), "\n")
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	return &Ledger{path: path, lines: lines}, nil
}

// Rows parses the well-formed data rows. Header, separator and malformed
// lines are skipped here and pass through Merge untouched.
func (l *Ledger) Rows() []Row {
	var rows []Row
	for i, line := range l.lines {
		cells, ok := splitRow(line)
		if !ok {
			continue
		}
		get := func(idx int) string {
			if idx < len(cells) {
				return cells[idx]
			}
			return ""
		}
		rows = append(rows, Row{
			Key:       keyFromCells(cells),
			Converted: get(cellConverted),
			Compiled:  get(cellCompiled),
			Verified:  get(cellVerified),
			Line:      i,
		})
	}
	return rows
}

// Merge applies a sparse update map onto the stored table. For each updated
// row and position i, a non-empty update symbol overwrites the stored rune
// and an empty one preserves it; stored symbols are never deleted. Rows
// without an update and malformed or non-table lines are left untouched.
// Applying the same update map twice is a no-op the second time.
func (l *Ledger) Merge(updates map[ConversionKey][]StatusSymbol) {
	for i, line := range l.lines {
		cells, ok := splitRow(line)
		if !ok {
			continue
		}
		symbols, ok := updates[keyFromCells(cells)]
		if !ok {
			continue
		}

		for len(cells) <= cellVerified {
			cells = append(cells, "")
		}
		existing := ParseSymbols(cells[cellVerified])

		merged := make([]StatusSymbol, len(symbols))
		for j, sym := range symbols {
			switch {
			case sym != SymbolNone:
				merged[j] = sym
			case j < len(existing):
				merged[j] = existing[j]
			}
		}
		cells[cellVerified] = FormatSymbols(merged)

		for len(cells) <= cellNotes {
			cells = append(cells, "")
		}
		l.lines[i] = strings.Join(cells, "|")
	}
}

// Save writes the table back, creating the file on first write.
func (l *Ledger) Save() error {
	content := strings.Join(l.lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(l.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return nil
}

// splitRow splits a data row into trimmed cells. Separator lines and rows
// without at least the five key cells are rejected.
func splitRow(line string) ([]string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "|") {
		return nil, false
	}
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	if len(cells) < 7 || isSeparatorCell(cells[1]) {
		return nil, false
	}
	return cells, true
}

// isSeparatorCell reports whether a cell is part of a markdown alignment row.
func isSeparatorCell(cell string) bool {
	if cell == "" {
		return false
	}
	for _, r := range cell {
		if r != '-' && r != ':' {
			return false
		}
	}
	return true
}

func keyFromCells(cells []string) ConversionKey {
	return ConversionKey{
		Tool:       cells[cellTool],
		Model:      cells[cellModel],
		Layer:      cells[cellLayer],
		Conversion: cells[cellConversion],
		App:        cells[cellApp],
	}
}
