// Package main is the entry point for the campaign companion server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campaign-api",
	Short: "Campaign companion server",
	Long:  `campaign-api runs the realtime backend for tabletop campaigns: skirmish combat sessions and army-scale mass battles over a websocket event channel.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
