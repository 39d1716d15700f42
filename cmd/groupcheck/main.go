// Package main provides the groupcheck CLI.
//
// groupcheck reads Go source files and reports, for every component group
// struct, how each field classifies (required or optional, and the payload
// component type), plus any schema-definition problem that would make
// deriving the group fail.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
