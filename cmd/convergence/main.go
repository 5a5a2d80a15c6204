package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"covsim/adapters/rng"
	"covsim/app"
	"covsim/internal"
	"covsim/internal/config"
	"covsim/internal/report"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	grid := flag.String("grid", formatGrid(appConfig.Sweep.Grid), "comma-separated sample sizes")
	reps := flag.Int("reps", appConfig.Sweep.Replications, "replications per grid point")
	spread := flag.Float64("spread", appConfig.Study.Spread, "standard deviation of the outcome draw")
	seed := flag.Int64("seed", appConfig.Study.Seed, "base RNG seed")
	parallel := flag.Int64("parallel", appConfig.Sweep.MaxParallel, "max concurrent replications")
	flag.Parse()

	sizes, err := parseGrid(*grid)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -grid:", err)
		os.Exit(2)
	}
	if *reps <= 0 {
		fmt.Fprintln(os.Stderr, "reps must be > 0")
		os.Exit(2)
	}
	if *spread <= 0 {
		fmt.Fprintln(os.Stderr, "spread must be > 0")
		os.Exit(2)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))

	svc := app.NewConvergenceService(rng.New(), logger)
	result, err := svc.RunSweep(context.Background(), app.ConvergenceRequest{
		Grid:         sizes,
		Replications: *reps,
		Spread:       *spread,
		BaseSeed:     *seed,
		MaxParallel:  *parallel,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error running sweep:", err)
		os.Exit(1)
	}

	if err := report.RenderSweep(os.Stdout, result); err != nil {
		fmt.Fprintln(os.Stderr, "error rendering sweep:", err)
		os.Exit(1)
	}
}

func formatGrid(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func parseGrid(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("grid entry %q is not an integer", part)
		}
		if n <= 0 {
			return nil, fmt.Errorf("grid entry must be > 0, got %d", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
