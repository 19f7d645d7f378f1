package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("cache miss") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("branch", "color", "red") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("branch", "color", "red") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Enumerated 2 colorings")

	out := buf.String()
	if !strings.Contains(out, "Enumerated 2 colorings (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message followed by elapsed time", out)
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	l := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestCommandsReceiveCLILogger(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "whoami",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = loggerFromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs([]string{"whoami"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
}

func TestSolveLogsThroughCLILogger(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"solve", "hexagon", "--json", "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(logs.String(), "Enumerated 2 colorings") {
		t.Errorf("solve did not log through the CLI logger:\n%s", logs.String())
	}
}
