package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "project-management-api",
	Short:         "Project management API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
