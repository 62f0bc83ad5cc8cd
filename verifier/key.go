package verifier

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ConversionKey identifies one (agent, framework migration, application)
// scenario. Keys are unique within a results table.
type ConversionKey struct {
	Tool       string
	Model      string
	Layer      string
	Conversion string
	App        string
}

// String renders the key the way progress lines and directories spell it.
func (k ConversionKey) String() string {
	return fmt.Sprintf("%s/%s/%s-%s", k.Tool, k.Layer, k.App, k.Conversion)
}

// AppDir returns the directory holding all runs of this conversion.
func (k ConversionKey) AppDir(conversionsDir string) string {
	return filepath.Join(conversionsDir, k.Tool, k.Layer, k.App+"-"+k.Conversion)
}

// RunDir returns the directory of a single run attempt.
func (k ConversionKey) RunDir(conversionsDir string, run int) string {
	return filepath.Join(k.AppDir(conversionsDir), fmt.Sprintf("run_%d", run))
}

// OutputDir returns where a run's diagnostic files are collected.
func (k ConversionKey) OutputDir(baseDir string, run int) string {
	return filepath.Join(baseDir, "evaluation-outputs", k.Tool, k.Layer,
		k.App+"-"+k.Conversion, fmt.Sprintf("run_%d", run))
}

// modelByTool maps an agent CLI to the model it was pinned to during the
// benchmark campaign. Unknown tools fall back to the tool name itself.
var modelByTool = map[string]string{
	"codex":  "gpt-5",
	"claude": "claude-sonnet-4.5",
	"gemini": "gemini-2.5-pro",
	"qwen":   "qwen3-coder-480b",
}

var (
	runSuffixRe = regexp.MustCompile(`/run_\d+.*$`)
	agentOutRe  = regexp.MustCompile(`/\.agent_out/.*$`)
	plainPathRe = regexp.MustCompile(`.*/agentic(?:2|4)?/([^/]+)/([^/]+)/([^/]+)/?$`)
	codexPathRe = regexp.MustCompile(`.*/codex/([^/]+)/([^/]+)/?$`)
)

// sourceFrameworks are migration sources that may prefix the app directory
// name, e.g. "cargo-tracker-jakarta-to-quarkus".
var sourceFrameworks = map[string]bool{
	"jakarta": true,
	"quarkus": true,
	"spring":  true,
}

// ParseRunPath recovers a ConversionKey from a conversion output path.
// Exactly two layouts are recognized:
//
//	.../agentic[2|4]/<tool>/<layer>/<app>-<conversion>
//	.../codex/<layer>/<app>-<conversion>
//
// A trailing run_<n> segment or .agent_out subtree is ignored. Anything else
// is an error; the layouts carry no more structure than this.
func ParseRunPath(path string) (ConversionKey, error) {
	path = runSuffixRe.ReplaceAllString(path, "")
	path = agentOutRe.ReplaceAllString(path, "")

	var tool, layer, appConv string
	if m := plainPathRe.FindStringSubmatch(path); m != nil {
		tool, layer, appConv = m[1], m[2], m[3]
	} else if m := codexPathRe.FindStringSubmatch(path); m != nil {
		tool, layer, appConv = "codex", m[1], m[2]
	} else {
		return ConversionKey{}, fmt.Errorf("unrecognized conversion path: %s", path)
	}

	app, conversion := splitAppConversion(appConv)
	model, ok := modelByTool[tool]
	if !ok {
		model = tool
	}

	return ConversionKey{
		Tool:       tool,
		Model:      model,
		Layer:      layer,
		Conversion: conversion,
		App:        app,
	}, nil
}

// splitAppConversion splits "<app>-<conversion>" on the "-to-" marker. The
// app name may itself carry the source framework as its last dash segment.
func splitAppConversion(appConv string) (app, conversion string) {
	toIdx := strings.Index(appConv, "-to-")
	if toIdx < 0 {
		// No migration marker: the conversion is the last dash segment.
		lastDash := strings.LastIndex(appConv, "-")
		if lastDash < 0 {
			return appConv, ""
		}
		return appConv[:lastDash], appConv[lastDash+1:]
	}

	before := appConv[:toIdx]
	after := appConv[toIdx+len("-to-"):]

	parts := strings.Split(before, "-")
	if len(parts) >= 2 {
		last := strings.ToLower(parts[len(parts)-1])
		if sourceFrameworks[last] {
			app = strings.Join(parts[:len(parts)-1], "-")
			return app, last + "-to-" + after
		}
	}
	return before, "to-" + after
}
