package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pthm-cable/doodlebugs/config"
	"github.com/pthm-cable/doodlebugs/game"
)

func TestRunInteractiveStopsOnInput(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g, err := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	var out bytes.Buffer
	if err := runInteractive(g, strings.NewReader("\n\nq\n"), &out); err != nil {
		t.Fatalf("runInteractive: %v", err)
	}

	if g.Epoch() != 2 {
		t.Errorf("epoch = %d, want 2 after two Enter presses", g.Epoch())
	}
	for _, banner := range []string{"EPOCH 1", "EPOCH 2", "EPOCH 3"} {
		if !strings.Contains(out.String(), banner) {
			t.Errorf("output missing %q", banner)
		}
	}
}

func TestRunInteractiveStopsOnEOF(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g, err := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	var out bytes.Buffer
	if err := runInteractive(g, strings.NewReader(""), &out); err != nil {
		t.Fatalf("runInteractive: %v", err)
	}
	if g.Epoch() != 0 {
		t.Errorf("epoch = %d, want 0", g.Epoch())
	}
}
