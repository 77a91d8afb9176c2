package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"pocketchat/internal/cli"
	"pocketchat/internal/config"
	"pocketchat/internal/render"
	"pocketchat/internal/service"
)

// RunChat starts the interactive terminal client. It returns the process exit code.
func RunChat() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	// Logs go to stderr as text so they do not interleave with the conversation on stdout.
	setupLogger(cfg.LogLevel, os.Stderr, false)
	logConfigSource()

	term := render.NewTerminal(80, liner.TerminalSupported())
	repl := cli.New(term, os.Stdout)

	a, err := NewApp(cfg, service.WithView(repl))
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()
	repl.Attach(a.Session, a.Models)

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	historyFile := historyPath()
	if f, err := os.Open(historyFile); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			slog.Debug("Could not read input history", "error", err)
		}
		_ = f.Close()
	}
	defer func() {
		saveHistory(line, historyFile)
		_ = line.Close()
	}()

	if err := repl.Run(context.Background(), &historyReader{State: line}); err != nil {
		slog.Error("Chat session ended with an error", "error", err)
		return 1
	}
	return 0
}

// historyReader records every non-empty line in the liner history.
type historyReader struct {
	*liner.State
}

func (h *historyReader) Prompt(prompt string) (string, error) {
	input, err := h.State.Prompt(prompt)
	if err == nil && input != "" {
		h.AppendHistory(input)
	}
	return input, err
}

func historyPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pocketchat", "input_history")
}

func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		slog.Debug("Could not save input history", "error", err)
	}
}
