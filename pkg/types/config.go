package types

import "errors"

// Config configuration errors.
var (
	ErrDataDirEmpty           = errors.New("data dir must not be empty")
	ErrCollisionRadiusInvalid = errors.New("collision radius must be positive")
	ErrCanvasInvalid          = errors.New("canvas dimensions must be positive")
)

// Defaults applied by the accessor methods when a field is zero.
const (
	DefaultCollisionRadius = 25.0
	DefaultLookupTolerance = 20.0
	DefaultCanvasWidth     = 800.0
	DefaultCanvasHeight    = 600.0
	DefaultNearestLimit    = 5
)

// Config holds store location and garden canvas parameters.
type Config struct {
	DataDir         string  `json:"data_dir" mapstructure:"data_dir"`
	CollisionRadius float64 `json:"collision_radius" mapstructure:"collision_radius"`
	LookupTolerance float64 `json:"lookup_tolerance" mapstructure:"lookup_tolerance"`
	CanvasWidth     float64 `json:"canvas_width" mapstructure:"canvas_width"`
	CanvasHeight    float64 `json:"canvas_height" mapstructure:"canvas_height"`
}

// Validate checks that the Config is well-formed. Zero values are allowed
// for everything except DataDir; the accessors substitute defaults.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.CollisionRadius < 0 {
		return ErrCollisionRadiusInvalid
	}
	if c.CanvasWidth < 0 || c.CanvasHeight < 0 {
		return ErrCanvasInvalid
	}
	return nil
}

// GetCollisionRadius returns the configured collision radius or the default.
func (c Config) GetCollisionRadius() float64 {
	if c.CollisionRadius > 0 {
		return c.CollisionRadius
	}
	return DefaultCollisionRadius
}

// GetLookupTolerance returns the configured lookup tolerance or the default.
func (c Config) GetLookupTolerance() float64 {
	if c.LookupTolerance > 0 {
		return c.LookupTolerance
	}
	return DefaultLookupTolerance
}

// GetCanvasWidth returns the configured canvas width or the default.
func (c Config) GetCanvasWidth() float64 {
	if c.CanvasWidth > 0 {
		return c.CanvasWidth
	}
	return DefaultCanvasWidth
}

// GetCanvasHeight returns the configured canvas height or the default.
func (c Config) GetCanvasHeight() float64 {
	if c.CanvasHeight > 0 {
		return c.CanvasHeight
	}
	return DefaultCanvasHeight
}
