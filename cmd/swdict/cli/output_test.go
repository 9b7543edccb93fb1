// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestNewLogger_Formats(t *testing.T) {
	var jsonOutput bytes.Buffer
	logger, err := NewLogger(&jsonOutput, "info", "json")
	if err != nil {
		t.Fatalf("NewLogger(json): %v", err)
	}
	logger.Info("built", "signs", 4)
	var record map[string]any
	if err := json.Unmarshal(jsonOutput.Bytes(), &record); err != nil {
		t.Fatalf("json output is not JSON: %v (%q)", err, jsonOutput.String())
	}
	if record["msg"] != "built" || record["signs"] != float64(4) {
		t.Errorf("record = %v", record)
	}

	var textOutput bytes.Buffer
	logger, err = NewLogger(&textOutput, "info", "text")
	if err != nil {
		t.Fatalf("NewLogger(text): %v", err)
	}
	logger.Info("built", "signs", 4)
	if !strings.Contains(textOutput.String(), "msg=built signs=4") {
		t.Errorf("text output = %q", textOutput.String())
	}

	// A buffer is not a terminal, so auto selects JSON.
	var autoOutput bytes.Buffer
	logger, err = NewLogger(&autoOutput, "", "auto")
	if err != nil {
		t.Fatalf("NewLogger(auto): %v", err)
	}
	logger.Info("loaded")
	if !strings.HasPrefix(autoOutput.String(), "{") {
		t.Errorf("auto output on a pipe = %q, want JSON", autoOutput.String())
	}
}

func TestNewLogger_Level(t *testing.T) {
	var output bytes.Buffer
	logger, err := NewLogger(&output, "warn", "text")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(output.String(), "hidden") || !strings.Contains(output.String(), "shown") {
		t.Errorf("output = %q", output.String())
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, err := NewLogger(&bytes.Buffer{}, "trace", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := NewLogger(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range tests {
		if got, err := ParseLevel(input); err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var params struct {
		JSONOutput
	}
	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	params.Bind(flagSet)

	var output bytes.Buffer
	done, err := params.EmitJSON(&output, []string{"a"})
	if done || err != nil || output.Len() != 0 {
		t.Fatalf("EmitJSON without --json = %v, %v, %q", done, err, output.String())
	}

	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var nilSlice []string
	done, err = params.EmitJSON(&output, nilSlice)
	if !done || err != nil {
		t.Fatalf("EmitJSON with --json = %v, %v", done, err)
	}
	if strings.TrimSpace(output.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", output.String())
	}
}

func TestWriteJSONKeepsMarkup(t *testing.T) {
	var output bytes.Buffer
	if err := WriteJSON(&output, map[string]string{"gloss": "<M&M>"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(output.String(), `"<M&M>"`) {
		t.Errorf("output = %q", output.String())
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.ExitCode() != 3 || err.Error() != "exit code 3" {
		t.Errorf("ExitError = %q, code %d", err.Error(), err.ExitCode())
	}
}
