// chain-bench is a benchmark and stress test for the chain library.
// It runs the built-in scenarios, or those of a TOML or YAML file, and
// validates every chain afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/phroun/chain"
	"github.com/phroun/chain/internal/scenario"
)

func main() {
	configPath := flag.String("config", "", "scenario file (.toml, .yaml or .yml); built-in scenarios when empty")
	parallel := flag.Int("parallel", 0, "scenarios to run at once; overrides the file's parallel setting")
	verbose := flag.Bool("v", false, "log each finished scenario")
	flag.Parse()

	file := scenario.Defaults()
	if *configPath != "" {
		var err error
		file, err = scenario.Load(*configPath)
		if err != nil {
			fmt.Printf("Failed to load scenarios: %v\n", err)
			os.Exit(1)
		}
	}
	if *parallel > 0 {
		file.Parallel = *parallel
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := chain.NewTextLogger(level)

	fmt.Println("Chain Benchmark and Stress Test")
	fmt.Println("===============================")
	fmt.Printf("Scenarios: %d (parallel %d)\n", len(file.Scenarios), file.Parallel)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := scenario.Run(ctx, file.Scenarios, file.Parallel, log)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}
	wall := time.Since(start)

	fmt.Println("SUMMARY")
	fmt.Println("=======")
	var total time.Duration
	for _, r := range results {
		fmt.Println(r)
		total += r.Duration
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Wall time: %v (sum of scenarios %v)\n", wall.Round(time.Millisecond), total.Round(time.Millisecond))
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}
