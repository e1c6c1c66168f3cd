package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crimetrends" {
			t.Errorf("expected use 'crimetrends', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		expected := map[string]bool{"build": false, "verify": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := expected[sub.Name()]; ok {
				expected[sub.Name()] = true
			}
		}
		for name, found := range expected {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors")
		}
	})
}
