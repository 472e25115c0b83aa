package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/doodlebugs/config"
	"github.com/pthm-cable/doodlebugs/game"
	"github.com/pthm-cable/doodlebugs/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	interactive := flag.Bool("interactive", false, "Print the grid and advance one epoch per Enter")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxEpochs := flag.Int("max-epochs", 1000, "Stop after N epochs in headless mode (0 = unlimited)")
	checkInvariants := flag.Bool("check-invariants", false, "Validate grid/collection consistency after every epoch")
	stopOnExtinction := flag.Bool("stop-on-extinction", true, "Stop once prey or predators die out")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Keep stdout for the grid in interactive mode
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if *interactive {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))

	g, err := game.NewGameWithOptions(game.Options{
		Seed:            *seed,
		LogStats:        *logStats,
		OutputDir:       *outputDir,
		CheckInvariants: *checkInvariants,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if *interactive {
		if err := runInteractive(g, os.Stdin, os.Stdout); err != nil {
			slog.Error("interactive loop failed", "error", err)
		}
		return
	}

	cfg := config.Cfg()
	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"size", cfg.World.Size,
		"cells", cfg.Derived.Cells,
		"prey", g.World().PreyCount(),
		"predators", g.World().PredatorCount(),
		"max_epochs", *maxEpochs,
		"output_dir", g.OutputDir(),
	)

	for *maxEpochs == 0 || g.Epoch() < *maxEpochs {
		g.Step()
		if *stopOnExtinction && g.Extinct() {
			slog.Info("population extinct",
				"epoch", g.Epoch(),
				"prey", g.World().PreyCount(),
				"predators", g.World().PredatorCount(),
			)
			return
		}
	}
	slog.Info("max epochs reached",
		"epoch", g.Epoch(),
		"prey", g.World().PreyCount(),
		"predators", g.World().PredatorCount(),
	)
}

// runInteractive draws the world and advances one epoch per bare Enter.
// Any other input, or EOF, ends the session.
func runInteractive(g *game.Game, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "This is a two-dimensional predator-prey simulation.")
	fmt.Fprintln(out, "Ants (o) are the prey and doodlebugs (X) are the predators.")
	fmt.Fprintln(out, "Press Enter to advance one epoch; type anything else to stop.")
	fmt.Fprintln(out)

	r := renderer.NewTextRenderer(out)
	reader := bufio.NewReader(in)
	for {
		if err := r.Draw(g.Epoch()+1, g.World()); err != nil {
			return fmt.Errorf("drawing epoch %d: %w", g.Epoch()+1, err)
		}
		line, err := reader.ReadString('\n')
		if err == io.EOF || line != "\n" {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		g.Step()
	}
}
