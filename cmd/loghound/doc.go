// Package loghound provides the command-line interface for the loghound tool.
// It configures subcommands (scan, detect, follow, results, patterns), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/loghound/loghound/cmd/loghound"
//	func main() { loghound.Execute() }
package loghound
