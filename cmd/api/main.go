package main

import (
	"fmt"
	"os"

	"github.com/bundler-sim/bundler_sim/cmd/api/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
