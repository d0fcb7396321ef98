package main

import (
	"fmt"
	"os"

	"voxtral-server/cmd/voxtral-server/cmd"
	"voxtral-server/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load environment: %v\n", err)
		os.Exit(1)
	}

	cmd.Execute()
}
