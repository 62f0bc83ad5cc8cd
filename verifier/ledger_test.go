package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `# Conversion results

| CLI Tool | Model | Layer | Conversion | App | Source | Converted | Compiled | Verified | Notes |
| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |
| claude | claude-sonnet-4.5 | persistence | jakarta-to-quarkus | cargo-tracker | ✅ | ✅✅ | ✅❌ | | |
| codex | gpt-5 | web | jakarta-to-spring | roster | ✅ | ✅ | ✅ | 🟢 | flaky on arm |
some prose in between
| broken | row |
`

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLedgerMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.md")

	ledger, err := LoadLedger(path)
	require.NoError(t, err)
	assert.Empty(t, ledger.Rows())

	require.NoError(t, ledger.Save())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLedgerRows(t *testing.T) {
	ledger, err := LoadLedger(writeLedger(t, sampleTable))
	require.NoError(t, err)

	rows := ledger.Rows()
	require.Len(t, rows, 3) // header parses as a zero-run row, separator and prose do not

	cargo := rows[1]
	assert.Equal(t, "claude", cargo.Key.Tool)
	assert.Equal(t, "cargo-tracker", cargo.Key.App)
	assert.Equal(t, 2, cargo.Runs())
	assert.True(t, cargo.CompiledOK(1))
	assert.False(t, cargo.CompiledOK(2))
	assert.Equal(t, SymbolNone, cargo.VerifiedSymbol(1))

	roster := rows[2]
	assert.Equal(t, 1, roster.Runs())
	assert.Equal(t, SymbolSuccess, roster.VerifiedSymbol(1))
	// Header row carries no run markers and is ignored downstream.
	assert.Equal(t, 0, rows[0].Runs())
}

func TestLedgerMerge(t *testing.T) {
	path := writeLedger(t, sampleTable)
	ledger, err := LoadLedger(path)
	require.NoError(t, err)

	key := ConversionKey{
		Tool: "claude", Model: "claude-sonnet-4.5", Layer: "persistence",
		Conversion: "jakarta-to-quarkus", App: "cargo-tracker",
	}
	updates := map[ConversionKey][]StatusSymbol{
		key: {SymbolSuccess, SymbolNotCompiled},
	}

	ledger.Merge(updates)
	require.NoError(t, ledger.Save())

	reloaded, err := LoadLedger(path)
	require.NoError(t, err)
	for _, row := range reloaded.Rows() {
		if row.Key == key {
			assert.Equal(t, "🟢⏭️", row.Verified)
			return
		}
	}
	t.Fatal("updated row not found after reload")
}

func TestLedgerMergePreservesExistingSymbols(t *testing.T) {
	path := writeLedger(t, sampleTable)
	ledger, err := LoadLedger(path)
	require.NoError(t, err)

	key := ConversionKey{
		Tool: "codex", Model: "gpt-5", Layer: "web",
		Conversion: "jakarta-to-spring", App: "roster",
	}
	// An empty update position must keep the stored 🟢.
	ledger.Merge(map[ConversionKey][]StatusSymbol{key: {SymbolNone}})
	require.NoError(t, ledger.Save())

	reloaded, err := LoadLedger(path)
	require.NoError(t, err)
	for _, row := range reloaded.Rows() {
		if row.Key == key {
			assert.Equal(t, SymbolSuccess, row.VerifiedSymbol(1))
			return
		}
	}
	t.Fatal("row not found after reload")
}

func TestLedgerMergeIsIdempotent(t *testing.T) {
	path := writeLedger(t, sampleTable)
	ledger, err := LoadLedger(path)
	require.NoError(t, err)

	key := ConversionKey{
		Tool: "claude", Model: "claude-sonnet-4.5", Layer: "persistence",
		Conversion: "jakarta-to-quarkus", App: "cargo-tracker",
	}
	updates := map[ConversionKey][]StatusSymbol{
		key: {SymbolBuildBlocked, SymbolNotCompiled},
	}

	ledger.Merge(updates)
	require.NoError(t, ledger.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	ledger, err = LoadLedger(path)
	require.NoError(t, err)
	ledger.Merge(updates)
	require.NoError(t, ledger.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestLedgerMergeLeavesOtherLinesUntouched(t *testing.T) {
	path := writeLedger(t, sampleTable)
	ledger, err := LoadLedger(path)
	require.NoError(t, err)

	key := ConversionKey{
		Tool: "claude", Model: "claude-sonnet-4.5", Layer: "persistence",
		Conversion: "jakarta-to-quarkus", App: "cargo-tracker",
	}
	ledger.Merge(map[ConversionKey][]StatusSymbol{key: {SymbolSuccess, SymbolSuccess}})
	require.NoError(t, ledger.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Conversion results")
	assert.Contains(t, content, "some prose in between")
	assert.Contains(t, content, "| broken | row |")
	assert.Contains(t, content, "| codex | gpt-5 | web | jakarta-to-spring | roster | ✅ | ✅ | ✅ | 🟢 | flaky on arm |")
	assert.Contains(t, content, "| --- | --- |")
}

func TestLedgerMergeEmptyUpdateMap(t *testing.T) {
	path := writeLedger(t, sampleTable)
	ledger, err := LoadLedger(path)
	require.NoError(t, err)

	ledger.Merge(nil)
	require.NoError(t, ledger.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleTable, string(data))
}

func TestSplitRow(t *testing.T) {
	_, ok := splitRow("| --- | --- | --- | --- | --- | --- | --- |")
	assert.False(t, ok, "alignment row must not parse as data")

	_, ok = splitRow("no pipes here")
	assert.False(t, ok)

	_, ok = splitRow("| too | few | cells |")
	assert.False(t, ok)

	cells, ok := splitRow("| a | b | c | d | e | f | g |")
	require.True(t, ok)
	assert.Equal(t, "a", cells[cellTool])
}
