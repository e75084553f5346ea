package types

// VegetableType is immutable reference data describing a species or
// cultivar: growth cycle, sowing season, footprint, and care needs.
// Loaded once at startup from the reference TOML file.
type VegetableType struct {
	ID            int      `json:"id" mapstructure:"id" validate:"required,gt=0"`
	Name          string   `json:"name" mapstructure:"name" validate:"required"`
	Description   string   `json:"description" mapstructure:"description"`
	CycleDays     int      `json:"cycle_days" mapstructure:"cycle_days" validate:"required,gt=0"`
	SowStartMonth int      `json:"sow_start_month" mapstructure:"sow_start_month" validate:"omitempty,min=1,max=12"`
	SowEndMonth   int      `json:"sow_end_month" mapstructure:"sow_end_month" validate:"omitempty,min=1,max=12"`
	Pests         []string `json:"pests" mapstructure:"pests"`
	CareNotes     []string `json:"care_notes" mapstructure:"care_notes"`
	Footprint     float64  `json:"footprint" mapstructure:"footprint"`
	MinSpacing    float64  `json:"min_spacing" mapstructure:"min_spacing"`
}

// InSeason reports whether the given month (1-12) falls inside the sowing
// window. The window may wrap across the year boundary, e.g. start=10
// end=3 covers October through March. A type with no window configured is
// always in season.
func (v VegetableType) InSeason(month int) bool {
	if v.SowStartMonth == 0 || v.SowEndMonth == 0 {
		return true
	}
	if v.SowStartMonth <= v.SowEndMonth {
		return month >= v.SowStartMonth && month <= v.SowEndMonth
	}
	return month >= v.SowStartMonth || month <= v.SowEndMonth
}
