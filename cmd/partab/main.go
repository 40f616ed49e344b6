// Command partab inspects, converts and benchmarks partition table checkpoints.
//
// Usage:
//
//	partab inspect state.bin
//	partab convert state.bin state.zst --compression zstd
//	partab bench --family betabern --entities 10000 --groups 20 --iters 10
//
// A YAML file passed with --config supplies defaults for the log level, the output
// compression and the bench seed.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
