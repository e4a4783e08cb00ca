package cmd

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tabhan/oro-product-manager/internal/config"
	"github.com/tabhan/oro-product-manager/internal/output"
)

// resetFlags clears flag values and their Changed state between test runs
// so explicit-supply detection does not leak across tests.
func resetFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"sku", "name", "unit", "inventory-status", "json"} {
		f := rootCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("flag %q not registered", name)
		}
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("resetting flag %q: %v", name, err)
		}
		f.Changed = false
	}
	// Cobra registers the help flag lazily on first Execute; clear it too so
	// a prior --help run does not short-circuit later executions.
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("resetting flag %q: %v", "help", err)
		}
		f.Changed = false
	}
	cfgFile = ""
	verbose = false
	quiet = false
	dryRun = false
}

func setupRootTest(t *testing.T) {
	t.Helper()
	resetFlags(t)
	cfg = &config.Config{
		BaseURL:      "https://oro.example.com",
		ClientID:     "id",
		ClientSecret: "secret",
		AdminPath:    "admin",
		Logging:      config.LoggingConfig{Level: "info", Format: "text"},
		Output:       config.OutputConfig{Colors: false},
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCmd_Help(t *testing.T) {
	setupRootTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "oroctl") {
		t.Errorf("expected help output to contain 'oroctl', got:\n%s", out)
	}
	for _, flag := range []string{"--sku", "--name", "--unit", "--inventory-status", "--config"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected help output to document %s", flag)
		}
	}
}

func TestRootCmd_MissingRequiredFlags(t *testing.T) {
	setupRootTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--sku", "PROD001"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected usage error when --name is missing")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	setupRootTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--nonexistent"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown flag, got nil")
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %T: %v", err, err)
	}
	if cliErr.ExitCode != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, output.ExitUsageError)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	setupRootTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"nonexistent-command"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
}

func TestRootCmd_SubcommandsList(t *testing.T) {
	setupRootTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	for _, sub := range []string{"config", "version", "completion"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand", sub)
		}
	}
}
