// Package main provides the hashall command-line interface.
//
// hashall computes checksums for files, directory trees and the contents of
// zip and tar archives, printing one line per hashed unit in either the
// classic "<hash>  <path>" layout or CSV. Work is spread across a pool of
// workers, each streaming its input through a reusable buffer.
//
// The binary supports these commands:
//   - hashall INPUT...: hash the inputs
//   - list: show which files a run would hash
//   - algorithms: show the supported hash algorithms
package main
