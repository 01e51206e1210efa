// Command forensic-scanner is the Randstorm / nonce-reuse forensic
// scanner's CLI entrypoint, generalizing the teacher's single-binary
// cmd/engine into a Cobra subcommand tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
