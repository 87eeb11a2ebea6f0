package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// DefaultPresetsPath returns the default file path for custom solver presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves custom solver presets to a JSON file.
func SaveCustomPresets(path string, presets []model.SolverPreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads custom solver presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]model.SolverPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.SolverPreset{}, nil
		}
		return nil, err
	}

	var presets []model.SolverPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// ExportPreset exports a single preset to a JSON file (for sharing).
func ExportPreset(path string, preset model.SolverPreset) error {
	preset.IsBuiltIn = false
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset imports a single preset from a JSON file.
func ImportPreset(path string) (model.SolverPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SolverPreset{}, err
	}

	var preset model.SolverPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return model.SolverPreset{}, err
	}

	preset.IsBuiltIn = false
	if preset.Name == "" {
		return model.SolverPreset{}, errors.New("imported preset has no name")
	}
	return preset, nil
}
