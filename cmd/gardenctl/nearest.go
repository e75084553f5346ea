// Nearest command lists crops nearest to a coordinate.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

var (
	flagRadius float64
	flagLimit  int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest <x> <y>",
	Short: "List active crops nearest to a coordinate",
	Long: `Nearest lists active crops within the radius of the coordinate,
closest first.

Example:
  gardenctl nearest 100 100
  gardenctl nearest 100 100 --radius 200 --limit 10`,
	Args: cobra.ExactArgs(2),
	RunE: runNearest,
}

func init() {
	nearestCmd.Flags().Float64Var(&flagRadius, "radius", 100, "search radius in canvas units")
	nearestCmd.Flags().IntVar(&flagLimit, "limit", types.DefaultNearestLimit, "maximum number of results")
}

func runNearest(cmd *cobra.Command, args []string) error {
	x, y, err := parseCoordinate(args[0], args[1])
	if err != nil {
		return err
	}

	hits := service.NearestCrops(runContext(cmd), x, y, flagRadius, flagLimit)

	if flagJSON {
		output, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal hits: %w", err)
		}
		cmd.Println(string(output))
		return nil
	}

	if len(hits) == 0 {
		cmd.Printf("no active crops within %g of (%g, %g)\n", flagRadius, x, y)
		return nil
	}
	for _, hit := range hits {
		name := hit.TypeName
		if name == "" {
			name = "unknown"
		}
		cmd.Printf("%-8.2f %s (%s) at (%g, %g)\n", hit.Distance, hit.CropID, name, hit.X, hit.Y)
	}
	return nil
}
