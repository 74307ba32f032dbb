package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/shell"
)

// bazaar seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a fresh demo snapshot (overwrites existing data)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		app := shell.NewApp(os.Stdin, os.Stdout)
		if err := app.Seed(); err != nil {
			return err
		}
		if err := app.Store.Save(); err != nil {
			return err
		}
		fmt.Println("demo snapshot written: admin / buyer1 / seller1, password 123456")
		return nil
	},
}
