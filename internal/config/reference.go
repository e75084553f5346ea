// Package config loads the garden reference data: vegetable types and
// structures, consumed at startup by the in-memory plot and by the store
// migration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// ReferenceData is the parsed content of the reference TOML file.
type ReferenceData struct {
	Garden     GardenSection
	Vegetables []types.VegetableType
	Structures []types.Structure
}

// GardenSection holds the singleton garden canvas parameters.
type GardenSection struct {
	Name   string  `mapstructure:"name"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// structureSection mirrors a [[structures]] table. The polygon is a list
// of [x, y] pairs in the file and is converted after unmarshalling.
type structureSection struct {
	ID          string      `mapstructure:"id" validate:"required"`
	Name        string      `mapstructure:"name" validate:"required"`
	Category    string      `mapstructure:"category" validate:"required"`
	Description string      `mapstructure:"description"`
	Polygon     [][]float64 `mapstructure:"polygon" validate:"required,min=3"`
}

// Load reads and validates the reference TOML file at path.
func Load(path string) (*ReferenceData, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading reference config: %w", err)
	}
	return parse(v)
}

func parse(v *viper.Viper) (*ReferenceData, error) {
	validate := validator.New()

	var ref ReferenceData
	if err := v.UnmarshalKey("garden", &ref.Garden); err != nil {
		return nil, fmt.Errorf("parsing garden section: %w", err)
	}

	if err := v.UnmarshalKey("vegetables", &ref.Vegetables); err != nil {
		return nil, fmt.Errorf("parsing vegetables: %w", err)
	}
	seen := make(map[int]bool, len(ref.Vegetables))
	for _, veg := range ref.Vegetables {
		if err := validate.Struct(veg); err != nil {
			return nil, fmt.Errorf("vegetable %q: %w", veg.Name, err)
		}
		if seen[veg.ID] {
			return nil, fmt.Errorf("vegetable %q: duplicate id %d", veg.Name, veg.ID)
		}
		seen[veg.ID] = true
	}

	var sections []structureSection
	if err := v.UnmarshalKey("structures", &sections); err != nil {
		return nil, fmt.Errorf("parsing structures: %w", err)
	}
	now := time.Now().UTC()
	for _, sec := range sections {
		if err := validate.Struct(sec); err != nil {
			return nil, fmt.Errorf("structure %q: %w", sec.ID, err)
		}
		st, err := sec.toStructure(now)
		if err != nil {
			return nil, fmt.Errorf("structure %q: %w", sec.ID, err)
		}
		ref.Structures = append(ref.Structures, st)
	}

	return &ref, nil
}

func (s structureSection) toStructure(createdAt time.Time) (types.Structure, error) {
	poly := make(types.Polygon, 0, len(s.Polygon))
	for _, pair := range s.Polygon {
		if len(pair) != 2 {
			return types.Structure{}, fmt.Errorf("polygon vertex must be an [x, y] pair, got %d values", len(pair))
		}
		poly = append(poly, types.Coordinate{X: pair[0], Y: pair[1]})
	}

	st := types.Structure{
		StructureID: s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
		Polygon:     poly,
		CreatedAt:   createdAt,
	}
	if err := st.Validate(); err != nil {
		return types.Structure{}, err
	}
	return st, nil
}

// VegetableByID returns the vegetable type with the given id, or false.
func (r *ReferenceData) VegetableByID(id int) (types.VegetableType, bool) {
	for _, veg := range r.Vegetables {
		if veg.ID == id {
			return veg, true
		}
	}
	return types.VegetableType{}, false
}

// StructureByID returns the structure with the given id, or false.
func (r *ReferenceData) StructureByID(id string) (types.Structure, bool) {
	for _, st := range r.Structures {
		if st.StructureID == id {
			return st, true
		}
	}
	return types.Structure{}, false
}

// WriteDefault writes the built-in reference file to path if no file
// exists there. A pre-existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(defaultReferenceTOML), 0o644)
}
