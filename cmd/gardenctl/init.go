// Init command for the gardenctl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the garden store",
	Long: `Init creates the store schema, loads the seed data, and migrates the
reference vegetable types and structures into the store. Safe to re-run:
existing tables and rows are left in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := runContext(cmd)

		if !manager.Available() {
			fmt.Fprintln(os.Stderr, "init: store unavailable")
			os.Exit(exitSysError)
		}

		schemaOK := manager.InitializeSchema(ctx)
		seedOK := manager.LoadInitialData(ctx)
		migrateOK := service.MigrateReferenceData(ctx)

		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		if !schemaOK || !seedOK || !migrateOK {
			fmt.Fprintln(os.Stderr, "init: store initialization incomplete")
			os.Exit(exitSysError)
		}

		cmd.Println("Garden store initialized successfully")
		cmd.Println("  data:", dataDir)
		return nil
	},
}
