package model

// maxRecentInstances caps the recent-instance list kept in the config file.
const maxRecentInstances = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied when a command does not override them
	DefaultBinSize  Extent       `json:"default_bin_size"`
	DefaultBinCount int          `json:"default_bin_count"`
	DefaultSolver   SolverConfig `json:"default_solver"`

	// Application preferences
	DataDir         string   `json:"data_dir"` // where generated instances land
	RecentInstances []string `json:"recent_instances"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSolverConfig().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultBinSize:  Extent{X: 100, Y: 100, Z: 100},
		DefaultBinCount: 4,
		DefaultSolver:   DefaultSolverConfig(),
		DataDir:         "data",
		RecentInstances: []string{},
	}
}

// TouchRecent records path as the most recently used instance. Duplicates
// move to the front and the list keeps at most maxRecentInstances entries.
func (c *AppConfig) TouchRecent(path string) {
	recent := make([]string, 0, len(c.RecentInstances)+1)
	recent = append(recent, path)
	for _, r := range c.RecentInstances {
		if r != path {
			recent = append(recent, r)
		}
	}
	if len(recent) > maxRecentInstances {
		recent = recent[:maxRecentInstances]
	}
	c.RecentInstances = recent
}
