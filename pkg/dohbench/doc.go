/*
Package dohbench contains functionality for benchmarking public DNS-over-HTTPS resolvers
speaking the JSON DoH API. A benchmark scenario is represented by the Benchmark struct that
is set up as desired and then executed using Benchmark.Run. Each execution of Benchmark.Run
returns a slice of ResultAggregator, where each element of the slice holds the measurements
of a single benchmarked provider.
*/
package dohbench
