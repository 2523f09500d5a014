// Flowerid CLI - Command-line tool for Flower ID generation and utilities
//
// Usage:
//   flowerid generate [flags]       Generate Flower IDs
//   flowerid parse <id>             Parse and inspect an ID
//   flowerid encode <id> <format>   Convert ID to different format
//   flowerid validate <id>          Validate an ID
//   flowerid capacity               Show layout capacity figures
//   flowerid bench                  Run performance benchmarks
//
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sxyafiq/flowerid"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "parse", "p":
		cmdParse(os.Args[2:])
	case "encode", "enc", "e":
		cmdEncode(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "capacity", "cap", "c":
		cmdCapacity(os.Args[2:])
	case "bench", "benchmark", "b":
		cmdBench(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("flowerid CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Flowerid CLI - Compact sortable distributed unique ID generator

Usage:
  flowerid <command> [flags]

Commands:
  generate, gen, g      Generate Flower IDs
  parse, p              Parse and inspect an ID
  encode, enc, e        Convert ID between formats
  validate, val, v      Validate an ID structure
  capacity, cap, c      Show layout capacity figures
  bench, b              Run performance benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ID
  flowerid generate --generator 42

  # Generate 10 IDs in decimal format
  flowerid generate --count 10 --format decimal --generator 42

  # Parse and inspect an ID (any format)
  flowerid parse V-q48AQglKA

  # Convert ID to different format
  flowerid encode 6335079166850929824 base64

  # Validate an ID
  flowerid validate V-q48AQglKA

  # Run benchmarks
  flowerid bench --duration 5s

For detailed help on a command:
  flowerid <command> --help

`)
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("count", 1, "Number of IDs to generate")
	generatorID := fs.Uint("generator", 0, "Generator ID (0-1023)")
	format := fs.String("format", "base64", "Output format: base64, decimal, hex, binary")
	unit := fs.String("unit", "ms", "Timestamp precision: ms or s")
	failFast := fs.Bool("fail-fast", false, "Fail instead of waiting when a tick's sequence is exhausted")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	batch := fs.Bool("batch", false, "Use batch generation for better performance")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: flowerid generate [flags]

Generate one or more Flower IDs.

Flags:
  --count N          Number of IDs to generate (default: 1)
  --generator N      Generator ID 0-1023 (default: 0)
  --format FORMAT    Output format: base64, decimal, hex, binary (default: base64)
  --unit UNIT        Timestamp precision: ms or s (default: ms)
  --fail-fast        Fail instead of waiting on sequence exhaustion
  --json             Output as JSON with full details
  --batch            Use batch generation (faster for large counts)

Examples:
  flowerid generate --generator 42
  flowerid generate --count 1000 --format decimal --generator 42
  flowerid generate --json --generator 5
`)
	}

	fs.Parse(args)

	cfg := flowerid.DefaultConfig(uint16(*generatorID))
	switch *unit {
	case "ms", "milliseconds":
	case "s", "seconds":
		cfg.TimeUnit = flowerid.Seconds
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown time unit %q (want ms or s)\n", *unit)
		os.Exit(1)
	}
	if *failFast {
		cfg.WaitPolicy = flowerid.FailFast
	}

	gen, err := flowerid.NewGeneratorWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		os.Exit(1)
	}

	var ids []flowerid.FID
	startTime := time.Now()
	ctx := context.Background()

	if *batch && *count > 1 {
		ids, err = gen.NextBatch(ctx, *count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			os.Exit(1)
		}
	} else {
		ids = make([]flowerid.FID, *count)
		for i := 0; i < *count; i++ {
			ids[i], err = gen.Next()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
				os.Exit(1)
			}
		}
	}

	duration := time.Since(startTime)

	if *jsonOutput {
		outputJSON(ids, duration, uint16(*generatorID))
	} else {
		for _, id := range ids {
			fmt.Println(formatID(id, *format))
		}

		// Show performance stats for large batches
		if *count > 100 {
			rate := float64(*count) / duration.Seconds()
			fmt.Fprintf(os.Stderr, "\nGenerated %d IDs in %v (%.0f IDs/sec)\n",
				*count, duration, rate)
		}
	}
}

func formatID(id flowerid.FID, format string) string {
	switch strings.ToLower(format) {
	case "decimal", "dec":
		return fmt.Sprintf("%d", id.Uint64())
	case "hex", "x":
		return id.Hex()
	case "binary", "bin":
		return id.Base2()
	default:
		return id.String()
	}
}

func outputJSON(ids []flowerid.FID, duration time.Duration, generatorID uint16) {
	type IDInfo struct {
		ID        string    `json:"id"`
		Decimal   uint64    `json:"decimal"`
		Hex       string    `json:"hex"`
		Timestamp time.Time `json:"timestamp"`
		Generator uint16    `json:"generator"`
		Sequence  uint16    `json:"sequence"`
	}

	type Output struct {
		Count       int      `json:"count"`
		GeneratorID uint16   `json:"generator_id"`
		Duration    string   `json:"duration"`
		RatePerSec  float64  `json:"rate_per_sec"`
		IDs         []IDInfo `json:"ids"`
	}

	infos := make([]IDInfo, len(ids))
	for i, id := range ids {
		_, seq, gen := id.Components()
		infos[i] = IDInfo{
			ID:        id.String(),
			Decimal:   id.Uint64(),
			Hex:       id.Hex(),
			Timestamp: id.Time(),
			Generator: gen,
			Sequence:  seq,
		}
	}

	rate := float64(len(ids)) / duration.Seconds()
	output := Output{
		Count:       len(ids),
		GeneratorID: generatorID,
		Duration:    duration.String(),
		RatePerSec:  rate,
		IDs:         infos,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// ============================================================================
// Parse Command
// ============================================================================

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: flowerid parse <id>\n")
		fmt.Fprintf(os.Stderr, "\nParse and inspect a Flower ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  flowerid parse V-q48AQglKA\n")
		fmt.Fprintf(os.Stderr, "  flowerid parse 6335079166850929824  # decimal format\n")
		os.Exit(1)
	}

	idStr := args[0]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s'\n", idStr)
		os.Exit(1)
	}

	ts, seq, gen := id.Components()
	age := id.Age()

	fmt.Printf("Flower ID: %s\n", id)
	fmt.Printf("\n")
	fmt.Printf("Components:\n")
	fmt.Printf("  Timestamp:  %s (tick %d)\n", id.Time().Format(time.RFC3339), ts)
	fmt.Printf("  Sequence:   %d\n", seq)
	fmt.Printf("  Generator:  %d\n", gen)
	fmt.Printf("\n")
	fmt.Printf("Encodings:\n")
	fmt.Printf("  Base64:     %s\n", id.String())
	fmt.Printf("  Decimal:    %d\n", id.Uint64())
	fmt.Printf("  Hex:        %s\n", id.Hex())
	b := id.Bytes()
	fmt.Printf("  Bytes:      % x\n", b[:])
	fmt.Printf("\n")
	fmt.Printf("Age:          %v\n", age.Round(time.Millisecond))
	fmt.Printf("Valid:        %v\n", id.IsValid())
}

func parseIDFlexible(idStr string) (flowerid.FID, error) {
	// The canonical string form first: exactly 11 characters, so it never
	// collides with the decimal or hex forms below.
	id, err := flowerid.Parse(idStr)
	if err == nil {
		return id, nil
	}

	// Decimal via the text unmarshaler.
	var fid flowerid.FID
	if err := fid.UnmarshalText([]byte(idStr)); err == nil {
		return fid, nil
	}

	// Hex, with or without a 0x prefix.
	return flowerid.ParseHex(strings.TrimPrefix(idStr, "0x"))
}

// ============================================================================
// Encode Command
// ============================================================================

func cmdEncode(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: flowerid encode <id> <format>\n")
		fmt.Fprintf(os.Stderr, "\nConvert a Flower ID to a different encoding format.\n")
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		fmt.Fprintf(os.Stderr, "  base64             Canonical 11-character URL-safe form\n")
		fmt.Fprintf(os.Stderr, "  decimal, dec       Decimal string\n")
		fmt.Fprintf(os.Stderr, "  hex, x             Hexadecimal\n")
		fmt.Fprintf(os.Stderr, "  binary, bin        Binary string\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  flowerid encode 6335079166850929824 base64\n")
		fmt.Fprintf(os.Stderr, "  flowerid encode V-q48AQglKA decimal\n")
		os.Exit(1)
	}

	idStr := args[0]
	format := args[1]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s': %v\n", idStr, err)
		os.Exit(1)
	}

	fmt.Println(formatID(id, format))
}

// ============================================================================
// Validate Command
// ============================================================================

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: flowerid validate <id>\n")
		fmt.Fprintf(os.Stderr, "\nValidate the structure of a Flower ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  flowerid validate V-q48AQglKA\n")
		os.Exit(1)
	}

	idStr := args[0]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Printf("INVALID: Unable to parse ID '%s'\n", idStr)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ts, seq, gen := id.Components()

	if !id.IsValid() {
		fmt.Printf("INVALID: ID structure is invalid\n")

		fmt.Printf("\nComponents:\n")
		fmt.Printf("  Timestamp:  tick %d\n", ts)
		fmt.Printf("  Sequence:   %d (valid range: 0-%d)\n", seq, flowerid.MaxSequence)
		fmt.Printf("  Generator:  %d (valid range: 0-%d)\n", gen, flowerid.MaxGenerator)

		if id.Uint64()&(1<<63) != 0 {
			fmt.Printf("\n  Error: Sign bit is set\n")
		}
		if time.Until(id.Time()) > 24*time.Hour {
			fmt.Printf("\n  Error: Timestamp is in the future\n")
		}

		os.Exit(1)
	}

	fmt.Printf("VALID: ID structure is valid\n")

	fmt.Printf("\nComponents:\n")
	fmt.Printf("  Timestamp:  %s\n", id.Time().Format(time.RFC3339))
	fmt.Printf("  Sequence:   %d\n", seq)
	fmt.Printf("  Generator:  %d\n", gen)
	fmt.Printf("  Age:        %v\n", id.Age().Round(time.Millisecond))
}

// ============================================================================
// Capacity Command
// ============================================================================

func cmdCapacity(args []string) {
	fs := flag.NewFlagSet("capacity", flag.ExitOnError)
	unit := fs.String("unit", "ms", "Timestamp precision: ms or s")
	fs.Parse(args)

	var tu flowerid.TimeUnit
	switch *unit {
	case "ms", "milliseconds":
		tu = flowerid.Milliseconds
	case "s", "seconds":
		tu = flowerid.Seconds
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown time unit %q (want ms or s)\n", *unit)
		os.Exit(1)
	}

	c := flowerid.CapacityFor(tu)
	fmt.Printf("Layout capacity (%v ticks):\n\n", tu)
	fmt.Printf("  Generators:        %d\n", c.MaxGenerators)
	fmt.Printf("  IDs per tick:      %d\n", c.IDsPerTick)
	fmt.Printf("  IDs/sec/generator: %d\n", c.ThroughputPerGenerator)
	fmt.Printf("  Lifespan:          %.0f years from epoch\n", c.Lifespan.Hours()/24/365)
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration")
	generatorID := fs.Uint("generator", 0, "Generator ID (0-1023)")
	batchSize := fs.Int("batch", 100, "Batch size for batch generation test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: flowerid bench [flags]

Run performance benchmarks for ID generation.

Flags:
  --duration D      Benchmark duration (default: 3s)
  --generator N     Generator ID 0-1023 (default: 0)
  --batch N         Batch size for batch test (default: 100)

Examples:
  flowerid bench --duration 5s
  flowerid bench --generator 42 --duration 10s
`)
	}

	fs.Parse(args)

	gen, err := flowerid.NewGenerator(uint16(*generatorID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running benchmarks (duration: %v, generator: %d)\n\n", *duration, *generatorID)
	ctx := context.Background()

	// Benchmark 1: Single ID generation
	fmt.Printf("1. Single ID Generation:\n")
	count := 0
	start := time.Now()
	deadline := start.Add(*duration)
	for time.Now().Before(deadline) {
		_, err := gen.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
			break
		}
		count++
	}
	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(count)

	fmt.Printf("   Generated:      %d IDs\n", count)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n", rate, nsPerOp)
	fmt.Printf("\n")

	// Benchmark 2: Batch generation
	fmt.Printf("2. Batch Generation (batch size: %d):\n", *batchSize)
	count = 0
	batchCount := 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		ids, err := gen.NextBatch(ctx, *batchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			break
		}
		count += len(ids)
		batchCount++
	}
	elapsed = time.Since(start)
	rate = float64(count) / elapsed.Seconds()
	nsPerOp = float64(elapsed.Nanoseconds()) / float64(count)

	fmt.Printf("   Generated:      %d IDs in %d batches\n", count, batchCount)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n", rate, nsPerOp)
	fmt.Printf("   Avg batch time: %.2f ms\n", float64(elapsed.Milliseconds())/float64(batchCount))
	fmt.Printf("\n")

	// Benchmark 3: Encoding performance
	fmt.Printf("3. Encoding Performance (1000 operations):\n")
	testID, err := gen.Next()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating test ID: %v\n", err)
		os.Exit(1)
	}

	encodingTests := []struct {
		name string
		fn   func() string
	}{
		{"Base64", func() string { return testID.String() }},
		{"Decimal", func() string { return fmt.Sprintf("%d", testID.Uint64()) }},
		{"Hex", func() string { return testID.Hex() }},
		{"Binary", func() string { return testID.Base2() }},
	}

	for _, test := range encodingTests {
		start := time.Now()
		for i := 0; i < 1000; i++ {
			_ = test.fn()
		}
		elapsed := time.Since(start)
		nsPerOp := float64(elapsed.Nanoseconds()) / 1000
		fmt.Printf("   %-8s %6.0f ns/op\n", test.name+":", nsPerOp)
	}

	fmt.Printf("\nBenchmark complete!\n")

	// Generator metrics accumulated across the run
	m := gen.GetMetrics()
	fmt.Printf("\nGenerator metrics:\n")
	fmt.Printf("   Generated:        %d\n", m.Generated)
	fmt.Printf("   Sequence waits:   %d\n", m.SequenceWaits)
	fmt.Printf("   Wait time:        %v\n", time.Duration(m.WaitTimeUs)*time.Microsecond)
	fmt.Printf("   Clock regressions: %d\n", m.ClockRegressions)
}
