package main

import (
	"context"
	"fmt"
	"os"

	"github.com/operator-framework/subsetsum/cmd/root"
)

func main() {
	rootCmd := root.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
