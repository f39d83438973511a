package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColumnsConfig maps the canonical column roles onto the column names used by
// a particular tracking app's export.
type ColumnsConfig struct {
	Type  string `yaml:"type" json:"type"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// EventTypesConfig maps canonical event kinds onto the type-column values used
// by the export.
type EventTypesConfig struct {
	Sleep string `yaml:"sleep" json:"sleep"`
	Feed  string `yaml:"feed" json:"feed"`
	Meds  string `yaml:"meds" json:"meds"`
}

// WorkHoursConfig is the highlighted working-hours window, in hours of the
// wall clock (not day-start relative).
type WorkHoursConfig struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// ColorsConfig holds hex color overrides for the rendered layers.
type ColorsConfig struct {
	Sleep     string `yaml:"sleep" json:"sleep"`
	Feed      string `yaml:"feed" json:"feed"`
	Separator string `yaml:"separator" json:"separator"`
	WorkHours string `yaml:"work_hours" json:"work_hours"`
	// Medications maps medication name to hex color. Unknown medications fall
	// back to the "Other" entry.
	Medications map[string]string `yaml:"medications" json:"medications"`
}

// VisualizationConfig groups the renderer settings.
type VisualizationConfig struct {
	Colors    ColorsConfig    `yaml:"colors" json:"colors"`
	WorkHours WorkHoursConfig `yaml:"work_hours" json:"work_hours"`
}

// Config is the per-data-source configuration: how to read one particular
// app's CSV export and how to color the rendered grid. Immutable once loaded.
type Config struct {
	// Name is a human-friendly label for the data source (e.g. "huckleberry").
	Name string `yaml:"name" json:"name"`

	Columns    ColumnsConfig    `yaml:"columns" json:"columns"`
	EventTypes EventTypesConfig `yaml:"event_types" json:"event_types"`

	// MedNameColumn is the column that carries the medication name for meds
	// rows. Huckleberry abuses "Start Location" for this.
	MedNameColumn string `yaml:"med_name_column" json:"med_name_column"`

	// MedicationTypes is the list of known medication names. Anything not on
	// the list (after alias resolution) is normalized to "Other".
	MedicationTypes []string `yaml:"medication_types" json:"medication_types"`

	// MedicationAliases maps a lowercase substring of a raw medication name to
	// its canonical name, e.g. "ibuprofen" -> "Motrin".
	MedicationAliases map[string]string `yaml:"medication_aliases" json:"medication_aliases"`

	Visualization VisualizationConfig `yaml:"visualization" json:"visualization"`
}

// DefaultConfig returns the built-in Huckleberry export mapping.
func DefaultConfig() *Config {
	return &Config{
		Name: "huckleberry",
		Columns: ColumnsConfig{
			Type:  "Type",
			Start: "Start",
			End:   "End",
		},
		EventTypes: EventTypesConfig{
			Sleep: "sleep",
			Feed:  "feed",
			Meds:  "meds",
		},
		MedNameColumn: "Start Location",
		MedicationTypes: []string{
			"Tylenol", "Pepcid", "Gas Relief Drops", "Gripe Water",
			"Vitamin D", "Probiotics", "Motrin",
		},
		MedicationAliases: map[string]string{
			"tylenol":   "Tylenol",
			"ibuprofen": "Motrin",
			"motrin":    "Motrin",
		},
		Visualization: VisualizationConfig{
			Colors: ColorsConfig{
				Sleep:     "#3DD2E6",
				Feed:      "#D5622F",
				Separator: "#9B59B6",
				WorkHours: "#9B59B6",
				Medications: map[string]string{
					"Tylenol":          "#FF0080",
					"Motrin":           "#FF3333",
					"Pepcid":           "#CCFF00",
					"Gas Relief Drops": "#9900FF",
					"Gripe Water":      "#FFFF66",
					"Vitamin D":        "#FFD700",
					"Probiotics":       "#FF66B2",
					"Other":            "#FFFFFF",
				},
			},
			WorkHours: WorkHoursConfig{Start: 9, End: 17},
		},
	}
}

// Normalize fills in missing optional values (visualization colors, aliases)
// so that partially-filled configs still render. Required keys are NOT
// defaulted here; Validate rejects them instead.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.MedicationAliases == nil {
		c.MedicationAliases = def.MedicationAliases
	}

	colors := &c.Visualization.Colors
	if colors.Sleep == "" {
		colors.Sleep = def.Visualization.Colors.Sleep
	}
	if colors.Feed == "" {
		colors.Feed = def.Visualization.Colors.Feed
	}
	if colors.Separator == "" {
		colors.Separator = def.Visualization.Colors.Separator
	}
	if colors.WorkHours == "" {
		colors.WorkHours = def.Visualization.Colors.WorkHours
	}
	if colors.Medications == nil {
		colors.Medications = def.Visualization.Colors.Medications
	}
	if _, ok := colors.Medications["Other"]; !ok {
		colors.Medications["Other"] = "#FFFFFF"
	}

	wh := &c.Visualization.WorkHours
	if wh.Start == 0 && wh.End == 0 {
		*wh = def.Visualization.WorkHours
	}
}

// Validate rejects configs with missing required keys. A config file that
// exists but only partially maps the export is a setup mistake the user
// should hear about immediately, not something to paper over with defaults.
func (c *Config) Validate() error {
	var missing []string
	if c.Columns.Type == "" {
		missing = append(missing, "columns.type")
	}
	if c.Columns.Start == "" {
		missing = append(missing, "columns.start")
	}
	if c.Columns.End == "" {
		missing = append(missing, "columns.end")
	}
	if c.EventTypes.Sleep == "" {
		missing = append(missing, "event_types.sleep")
	}
	if c.EventTypes.Feed == "" {
		missing = append(missing, "event_types.feed")
	}
	if c.EventTypes.Meds == "" {
		missing = append(missing, "event_types.meds")
	}
	if c.MedNameColumn == "" {
		missing = append(missing, "med_name_column")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	if c.Visualization.WorkHours.Start < 0 || c.Visualization.WorkHours.Start > 23 ||
		c.Visualization.WorkHours.End < 0 || c.Visualization.WorkHours.End > 24 {
		return errors.New("config: visualization.work_hours out of range")
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write the default Huckleberry config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize optional values, then validate required keys
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".sleepviz-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}
