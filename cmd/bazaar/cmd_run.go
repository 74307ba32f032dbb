package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/shell"
)

// bazaar run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive marketplace shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		app := shell.NewApp(os.Stdin, os.Stdout)
		app.Bootstrap()
		return app.Run()
	},
}
