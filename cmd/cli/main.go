package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Afifibytes/simple-survey-tool/cmd/cli/surveys"
)

func init() {
	// A missing .env file is fine; the environment can come from elsewhere.
	_ = godotenv.Load()

	rootCmd.AddGroup(surveys.Group)
	rootCmd.AddCommand(surveys.List)
	rootCmd.AddCommand(surveys.Activate)
	rootCmd.AddCommand(surveys.Deactivate)
	rootCmd.AddCommand(surveys.Seed)
}

var rootCmd = &cobra.Command{
	Use:  "survey-cli",
	Long: `Command line utilities for the survey tool`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
