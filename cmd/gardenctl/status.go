// Status command reports store availability and content counts.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// storeStatus is the status report printed by the status command.
type storeStatus struct {
	Available  bool   `json:"available"`
	DataDir    string `json:"data_dir"`
	Crops      int    `json:"crops"`
	Structures int    `json:"structures"`
	Vegetables int    `json:"vegetable_types"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report store availability and content counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := runContext(cmd)

		dataDir, err := resolveDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}

		status := storeStatus{
			Available: manager.Available(),
			DataDir:   dataDir,
		}
		if status.Available {
			status.Crops = countTable(ctx, "crops")
			status.Structures = countTable(ctx, "structures")
			status.Vegetables = countTable(ctx, "vegetable_types")
		}

		if flagJSON {
			output, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal status: %w", err)
			}
			cmd.Println(string(output))
			return nil
		}

		if !status.Available {
			cmd.Println("store: unavailable (in-memory only)")
			cmd.Println("  data:", status.DataDir)
			return nil
		}
		cmd.Println("store: available")
		cmd.Println("  data:", status.DataDir)
		cmd.Println("  crops:", status.Crops)
		cmd.Println("  structures:", status.Structures)
		cmd.Println("  vegetable types:", status.Vegetables)
		return nil
	},
}

// countTable returns the row count of a node table, or -1 when the
// probe fails. Probe failures show up in the report, not as command
// errors.
func countTable(ctx context.Context, table string) int {
	rows, err := manager.ExecuteQuery(ctx, "SELECT COUNT(*) FROM "+table, nil, nil)
	if err != nil || rows == nil {
		return -1
	}
	defer rows.Close()

	if !rows.Next() {
		return -1
	}
	var n int
	if err := rows.Scan(&n); err != nil {
		return -1
	}
	return n
}
