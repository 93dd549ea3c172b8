// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jiravision/jiravision/internal/app"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "jiravision",
	Short: "Project management platform",
	Long:  `JiraVision is a self-hosted project management platform with a team calendar, member directory, and iCalendar export.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cfgFile)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunMigrations(cfgFile, "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Rollback N migrations (default: 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := "1"
		if len(args) > 0 {
			steps = args[0]
		}
		return app.RunMigrations(cfgFile, "down:"+steps)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunMigrations(cfgFile, "status")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		app.PrintVersion()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		fmt.Println("Configuration is valid")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration (sensitive values masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg.PrintMasked()
		return nil
	},
}

var agendaOpts app.AgendaOptions

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show the calendar agenda from a running server",
	Long: `Agenda renders the calendar for a view (day, week, or month) by
querying a running JiraVision server. The bearer token is taken from
--token or the JIRAVISION_TOKEN environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunAgenda(cfgFile, agendaOpts)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run the daily agenda digest once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunDigestNow(cfgFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: /etc/jiravision/config.yaml or ./config.yaml)")

	agendaCmd.Flags().StringVar(&agendaOpts.ServerURL, "server", "", "base URL of the JiraVision server (default: http://localhost:<port>)")
	agendaCmd.Flags().StringVar(&agendaOpts.Token, "token", "", "bearer token for the API")
	agendaCmd.Flags().StringVar(&agendaOpts.View, "view", "month", "view mode: day, week, or month")
	agendaCmd.Flags().StringVar(&agendaOpts.Date, "date", "", "anchor date (YYYY-MM-DD, default: today)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(digestCmd)

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)

	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
