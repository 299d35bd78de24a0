package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdidvp/matrixcheck/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrValidationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
