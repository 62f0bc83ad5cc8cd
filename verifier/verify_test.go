package verifier

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigo/events"
)

// seedBatch lays out a complete single-row scenario: results table, run
// directory with a pom, and the target's Dockerfile template.
func seedBatch(t *testing.T, verified string) (opts Options, key ConversionKey) {
	t.Helper()
	key = testKey()
	base := t.TempDir()
	conversions := filepath.Join(base, "agentic")

	runDir := key.RunDir(conversions, 1)
	require.NoError(t, os.MkdirAll(runDir, 0o755))
	writeFile(t, runDir, "pom.xml", "<project/>")
	writeFile(t, base, TargetQuarkus.TemplateName(), sampleTemplate)

	table := "| CLI Tool | Model | Layer | Conversion | App | Source | Converted | Compiled | Verified | Notes |\n" +
		"| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n" +
		"|claude|claude-sonnet-4.5|persistence|jakarta-to-quarkus|cargo-tracker|✅|✅|✅|" + verified + "||\n"
	resultsFile := filepath.Join(base, "results.md")
	require.NoError(t, os.WriteFile(resultsFile, []byte(table), 0o644))

	return Options{
		ResultsFile:    resultsFile,
		BaseDir:        base,
		ConversionsDir: conversions,
	}, key
}

func TestRunVerificationMissingResultsFile(t *testing.T) {
	_, err := RunVerification(Options{ResultsFile: filepath.Join(t.TempDir(), "absent.md")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "results file not found")
}

func TestRunVerificationDryRun(t *testing.T) {
	opts, _ := seedBatch(t, "")
	opts.DryRun = true

	before, err := os.ReadFile(opts.ResultsFile)
	require.NoError(t, err)

	result, err := RunVerification(opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)

	after, err := os.ReadFile(opts.ResultsFile)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "dry run must not touch the table")
}

func TestRunVerificationNothingToDo(t *testing.T) {
	opts, key := seedBatch(t, "🟢")
	opts.SkipExisting = true

	result, err := RunVerification(opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	ledger, err := LoadLedger(opts.ResultsFile)
	require.NoError(t, err)
	for _, row := range ledger.Rows() {
		if row.Key == key {
			assert.Equal(t, SymbolSuccess, row.VerifiedSymbol(1))
			return
		}
	}
	t.Fatal("row missing after merge")
}

func TestRunVerificationFailedBuildRecordsBlocked(t *testing.T) {
	opts, key := seedBatch(t, "")
	// A docker binary that fails every invocation exercises the build
	// failure path without a daemon.
	opts.Docker = &DockerClient{path: "/bin/false"}
	opts.AuditFile = filepath.Join(t.TempDir(), "audit", "results.csv")

	broker := events.NewBroker()
	ch := make(chan events.Event, 8)
	broker.Register(ch)
	defer broker.Unregister(ch)
	opts.Events = broker

	result, err := RunVerification(opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, SymbolBuildBlocked, result.Results[0].Symbol)
	assert.Equal(t, FailBuildFailed, result.Results[0].Kind)

	ledger, err := LoadLedger(opts.ResultsFile)
	require.NoError(t, err)
	found := false
	for _, row := range ledger.Rows() {
		if row.Key == key {
			found = true
			assert.Equal(t, SymbolBuildBlocked, row.VerifiedSymbol(1))
		}
	}
	assert.True(t, found)

	data, err := os.ReadFile(opts.AuditFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Path,Status,Error", lines[0])
	assert.Contains(t, lines[1], "docker build error")

	select {
	case ev := <-ch:
		assert.Equal(t, "job_completed", ev.Type)
		assert.Equal(t, 1, ev.Data["total"])
		assert.Equal(t, "🔨", ev.Data["symbol"])
	default:
		t.Fatal("no progress event broadcast")
	}
}
