// Package project handles floor-plan persistence: the JSON document a plan
// is saved as, and the SQLite index of known plans.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"floor-sketch/internal/element"
	"floor-sketch/internal/view"
)

// FileVersion is the current plan document schema version.
const FileVersion = 1

// Default project-level scale and label settings.
const (
	DefaultPixelsPerUnit = 10.0
	DefaultLabelFontSize = 12.0
)

// File is a floor plan document. The element list round-trips verbatim,
// derived centimeter fields included, so a reload never recomputes geometry
// the saved file already considers valid.
type File struct {
	Version       int               `json:"version"`
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Created       time.Time         `json:"created"`
	Modified      time.Time         `json:"modified"`
	PixelsPerUnit float64           `json:"pixelsPerUnit"`
	LabelFontSize float64           `json:"labelFontSize"`
	View          view.Transform    `json:"view"`
	Elements      []element.Element `json:"elements"`
}

// New creates an empty plan with default settings.
func New(name string) *File {
	now := time.Now().UTC()
	return &File{
		Version:       FileVersion,
		ID:            uuid.NewString(),
		Name:          name,
		Created:       now,
		Modified:      now,
		PixelsPerUnit: DefaultPixelsPerUnit,
		LabelFontSize: DefaultLabelFontSize,
		View:          view.Default(),
	}
}

// Load reads a plan document from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if f.Version > FileVersion {
		return nil, fmt.Errorf("plan %s: unsupported version %d", path, f.Version)
	}
	if f.PixelsPerUnit <= 0 {
		f.PixelsPerUnit = DefaultPixelsPerUnit
	}
	if f.LabelFontSize <= 0 {
		f.LabelFontSize = DefaultLabelFontSize
	}
	if f.View.Scale <= 0 {
		f.View = view.Default()
	}
	return &f, nil
}

// Save writes the plan document to disk, updating its modification time.
func (f *File) Save(path string) error {
	f.Modified = time.Now().UTC()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}
