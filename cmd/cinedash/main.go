package main

import (
	"fmt"
	"os"

	"github.com/user/cinedash/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	root, cleanup := cli.NewRootCmd()
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
