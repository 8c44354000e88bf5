package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	a, err := analyzer.NewAnalyzer(analyzer.DefaultConfig(), log)
	require.NoError(t, err)

	return a
}

func writeSampleLog(t *testing.T) string {
	content := strings.Join([]string{
		"[2026-01-27 10:00:00.000][INFO][executor] [LIFECYCLE][ETH] start_strategy called | qty=1, direction=long",
		"[2026-01-27 10:00:01.000][INFO][executor] [AUDIT][ORDER_SUBMIT][ETH] Submitting order | order_id=a1, symbol=ETHUSDT, side=BUY, qty=0.5",
		"[2026-01-27 10:00:02.000][INFO][executor] [AUDIT][ORDER_RESPONSE][ETH] Order accepted | order_id=a1, symbol=ETHUSDT, latency_ms=10",
		"[2026-01-27 10:00:05.000][INFO][executor] [LIFECYCLE][ETH] stop_strategy called",
	}, "\n")

	path := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestNewModel(t *testing.T) {
	m := NewModel(newTestAnalyzer(t))

	assert.Equal(t, StateFileInput, m.state)
	assert.Equal(t, analyzer.FilterAll, m.filter)
	assert.Nil(t, m.result)
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "whole number", input: 2, expected: "2"},
		{name: "fraction", input: 0.5, expected: "0.5000"},
		{name: "zero", input: 0, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatQty(tt.input))
		})
	}
}

func TestFileLoadFlow(t *testing.T) {
	path := writeSampleLog(t)

	m := NewModel(newTestAnalyzer(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	// Wait for the file prompt
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Argo LogLens"))
	}, teatest.WithDuration(2*time.Second))

	// Type the file path and load it
	tm.Type(path)
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	// Verify the asset list appears with the discovered ticker
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Select Asset")) && bytes.Contains(bts, []byte("ETH"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestAssetSelectionShowsSessions(t *testing.T) {
	path := writeSampleLog(t)

	m := NewModel(newTestAnalyzer(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Type(path)
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Select Asset"))
	}, teatest.WithDuration(2*time.Second))

	// Select "all"
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Sessions - all"))
	}, teatest.WithDuration(2*time.Second))

	// Tab switches to the order table
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Orders - all")) && bytes.Contains(bts, []byte("ETHUSDT"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestLoadMissingFileShowsError(t *testing.T) {
	m := NewModel(newTestAnalyzer(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Type(filepath.Join(t.TempDir(), "missing.log"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Error:"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}
