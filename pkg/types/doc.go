// Package types defines the entity types, store configuration, and
// standard error types for the gardenplot persistence core.
package types
