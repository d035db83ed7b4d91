// Package cmd provides the command-line interface implementation for hashall.
//
// The root command hashes its arguments. It uses the Cobra library for
// command structure and is executed through Fang for styled help and errors.
//
// The package is organized into the following files:
//   - root: the hashing command, its flags and the shared policy flags
//   - list: prints the jobs a run would dispatch
//   - algorithms: prints the supported hash algorithms
//   - config: TOML config file merging and buffer size parsing
//   - logging: slog logger construction for stderr
//
// The hashall package does the actual work; this package only turns flags
// and config files into hashall.Options.
package cmd
