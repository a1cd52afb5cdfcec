// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// memstore is a benchmarking and verification tool for the memstore table
// layouts.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	csvPath     string
	indexColumn int
	layoutNames []string
	maxValue    int32
	numCols     int
	numRows     int
	seed        uint64
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "memstore [command] (flags)",
	Short: "memstore benchmarking/verification tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		benchCmd,
		verifyCmd,
	)

	for _, cmd := range []*cobra.Command{benchCmd, verifyCmd} {
		cmd.Flags().StringVar(
			&csvPath, "csv", "", "load rows from a CSV file instead of generating them")
		cmd.Flags().IntVar(
			&numRows, "rows", 100000, "number of generated rows")
		cmd.Flags().IntVar(
			&numCols, "cols", 8, "number of generated columns (at least 4 for the full workload)")
		cmd.Flags().Int32Var(
			&maxValue, "max-value", 1024, "generated fields are drawn from [0, max-value)")
		cmd.Flags().Uint64Var(
			&seed, "seed", 1, "seed for generated rows and query thresholds")
		cmd.Flags().BoolVarP(
			&verbose, "verbose", "v", false, "log table loads")
	}

	benchCmd.Flags().StringSliceVar(
		&layoutNames, "layouts", []string{"row", "column", "indexed-row"}, "layouts to benchmark")
	benchCmd.Flags().IntVar(
		&indexColumn, "index-column", 1, "column indexed by the indexed-row layout")
	benchCmd.Flags().IntVarP(
		&benchConfig.numOps, "num-ops", "n", 1000, "number of executions of each query")
	benchCmd.Flags().IntVar(
		&benchConfig.writes, "writes", 0, "number of random point writes interleaved with each query")
	benchCmd.Flags().BoolVar(
		&benchConfig.metrics, "metrics", false, "print prometheus metrics after the run")

	verifyCmd.Flags().IntVarP(
		&verifyConfig.numOps, "num-ops", "n", 10000, "number of random operations")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
