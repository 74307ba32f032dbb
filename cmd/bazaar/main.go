package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bazaar",
	Short: "Bazaar — terminal marketplace simulator",
	Long:  "Bazaar is a single-process marketplace: register buyers and sellers, list goods, place orders and walk them through shipment, receipt and review — all from one terminal.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
}
