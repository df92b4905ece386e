package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/mindstitch/internal/cli"
	"github.com/fatih/color"
)

func main() {
	ctx := context.Background()

	if err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
