// Package benchmark holds performance benchmarks for printlink.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Printer benchmarks dial a loopback sink that discards everything it
// reads, so they measure printlink's overhead plus the local TCP stack:
//
//	go test -bench=BenchmarkPrinter -benchmem -benchtime=5s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
