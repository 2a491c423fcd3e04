// Command estimator prices restoration estimates offline: validate an
// assessment file, re-price it, or size equipment for a room.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
