package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tree-service-leads/cmd/jobctl/commands"
)

func main() {
	_ = godotenv.Load()
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
