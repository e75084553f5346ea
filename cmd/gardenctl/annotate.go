// Annotate command records a note against a crop, a vegetable type, or
// the garden as a whole.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

var (
	flagKind   string
	flagCropID string
	flagTypeID int
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <note>",
	Short: "Record an annotation",
	Long: `Annotate records a free-text note. With --crop it targets a placed
crop, with --type a vegetable type, and with neither the garden as a
whole. The two target flags are mutually exclusive.

Example:
  gardenctl annotate "first frost of the season"
  gardenctl annotate --crop abc123 "first flowers"
  gardenctl annotate --type 1 --kind reminder "stake before June"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVar(&flagKind, "kind", types.AnnotationNote, "annotation kind (note, event, reminder, photo)")
	annotateCmd.Flags().StringVar(&flagCropID, "crop", "", "target crop id")
	annotateCmd.Flags().IntVar(&flagTypeID, "type", 0, "target vegetable type id")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	id, err := service.AddAnnotation(runContext(cmd), types.Annotation{
		Kind:   flagKind,
		Note:   args[0],
		CropID: flagCropID,
		TypeID: flagTypeID,
	})
	if errors.Is(err, types.ErrAmbiguousTarget) {
		fmt.Fprintln(os.Stderr, "annotate: --crop and --type are mutually exclusive")
		os.Exit(exitUserError)
	}
	if errors.Is(err, types.ErrUnknownVegetable) {
		fmt.Fprintln(os.Stderr, "annotate: unknown vegetable type", strconv.Itoa(flagTypeID))
		os.Exit(exitUserError)
	}
	if err != nil {
		return fmt.Errorf("add annotation: %w", err)
	}

	cmd.Println("recorded annotation", id)
	return nil
}
