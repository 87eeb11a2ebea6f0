package model

// SolverPreset is a named solver configuration, so a run can ask for
// "fast" or "thorough" instead of spelling out every parameter.
type SolverPreset struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Config      SolverConfig `json:"config"`
	IsBuiltIn   bool         `json:"built_in,omitempty"`
}

// Built-in solver presets. Custom presets loaded from disk shadow these by
// name.
var SolverPresets = []SolverPreset{
	{
		Name:        "fast",
		Description: "Small population, few generations; a quick first look",
		Config: SolverConfig{
			PopulationSize: 50,
			Generations:    60,
			MutationRate:   0.15,
			TournamentSize: 3,
			EliteCount:     2,
			Seed:           0,
			Workers:        1,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "thorough",
		Description: "Large population, long run, parallel evaluation",
		Config: SolverConfig{
			PopulationSize: 300,
			Generations:    600,
			MutationRate:   0.08,
			TournamentSize: 4,
			EliteCount:     6,
			Seed:           0,
			Workers:        4,
		},
		IsBuiltIn: true,
	},
	{
		Name:        "balanced",
		Description: "The default solver configuration",
		Config:      DefaultSolverConfig(),
		IsBuiltIn:   true,
	},
}

// GetPreset returns the built-in preset with the given name.
func GetPreset(name string) (SolverPreset, bool) {
	for _, p := range SolverPresets {
		if p.Name == name {
			return p, true
		}
	}
	return SolverPreset{}, false
}

// GetPresetNames returns the names of all built-in presets.
func GetPresetNames() []string {
	var names []string
	for _, p := range SolverPresets {
		names = append(names, p.Name)
	}
	return names
}
