// Command specops runs the spectrum algebra on a synthetic absorption and
// emission band.
//
// Usage:
//
//	specops [flags] <command> [args]
//
// The band is the built-in CO-like fixture unless --recipe names a YAML file
// describing another one. Environment variables SPECOPS_TOLERANCE,
// SPECOPS_LOG_LEVEL and SPECOPS_LOG_FORMAT provide flag defaults.
//
// Examples:
//
//	specops units
//	specops info --unit nm
//	specops crop 2100 2200 cm-1
//	specops split 4600 nm
//	specops identity
//	specops --recipe band.yaml slit 1.5 cm-1
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
