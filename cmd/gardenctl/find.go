// Find command looks up the crop at a coordinate.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <x> <y>",
	Short: "Find the crop at a coordinate",
	Long: `Find returns the active crop within the lookup tolerance of the
coordinate. A miss is reported, not an error.

Example:
  gardenctl find 100 100`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	x, y, err := parseCoordinate(args[0], args[1])
	if err != nil {
		return err
	}

	crop, ok := service.FindCropAt(runContext(cmd), x, y)
	if !ok {
		cmd.Printf("no crop at (%g, %g)\n", x, y)
		return nil
	}

	if flagJSON {
		output, err := json.MarshalIndent(crop, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal crop: %w", err)
		}
		cmd.Println(string(output))
		return nil
	}

	name := "unknown"
	if veg, ok := service.Plot().VegetableType(crop.TypeID); ok {
		name = veg.Name
	}
	cmd.Printf("%s (%s) at (%g, %g), sown %s, status %s\n",
		crop.CropID, name, crop.Coord.X, crop.Coord.Y,
		crop.SownAt.Format("2006-01-02"), crop.Status)
	return nil
}
