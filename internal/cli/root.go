package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ogc-dashboard",
	Short: "Billing analytics for in-house legal teams",
	Long: `ogc-dashboard turns raw time-entry exports into a terminal dashboard.

Load the billing system's CSV exports once, then explore attorney
utilization, client value and monthly trends interactively.`,
}

var configPath string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
}
