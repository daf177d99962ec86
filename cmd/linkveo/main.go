package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/linkveo/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ linkveo: %v\n", err)
		os.Exit(1)
	}
}
