// Place command plants a crop at a coordinate.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

var flagSownAt string

var placeCmd = &cobra.Command{
	Use:   "place <type-id> <x> <y>",
	Short: "Place a crop at a coordinate",
	Long: `Place plants a crop of the given vegetable type at canvas coordinates.
The placement fails when the point lies within the collision radius of
an existing active crop.

Example:
  gardenctl place 1 100 100
  gardenctl place 2 250 300 --sown-at 2024-03-01`,
	Args: cobra.ExactArgs(3),
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().StringVar(&flagSownAt, "sown-at", "", "sowing date as YYYY-MM-DD (default: today)")
}

func runPlace(cmd *cobra.Command, args []string) error {
	typeID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid type id %q", args[0])
	}
	x, y, err := parseCoordinate(args[1], args[2])
	if err != nil {
		return err
	}

	sownAt := time.Now().UTC()
	if flagSownAt != "" {
		sownAt, err = time.Parse("2006-01-02", flagSownAt)
		if err != nil {
			return fmt.Errorf("invalid sowing date %q (expected YYYY-MM-DD)", flagSownAt)
		}
	}

	id, err := service.PlaceCrop(runContext(cmd), types.PlacedCrop{
		TypeID: typeID,
		Coord:  types.Coordinate{X: x, Y: y},
		SownAt: sownAt,
	})
	if errors.Is(err, types.ErrCollision) {
		fmt.Fprintf(os.Stderr, "place: coordinate (%g, %g) collides with an existing crop\n", x, y)
		os.Exit(exitUserError)
	}
	if errors.Is(err, types.ErrUnknownVegetable) {
		fmt.Fprintf(os.Stderr, "place: unknown vegetable type %d\n", typeID)
		os.Exit(exitUserError)
	}
	if err != nil {
		return fmt.Errorf("place crop: %w", err)
	}

	if flagJSON {
		crop, _ := service.Plot().Crop(id)
		output, err := json.MarshalIndent(crop, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal crop: %w", err)
		}
		cmd.Println(string(output))
		return nil
	}
	cmd.Println("placed crop", id)
	return nil
}

// parseCoordinate parses a pair of canvas coordinate arguments.
func parseCoordinate(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y coordinate %q", ys)
	}
	return x, y, nil
}
