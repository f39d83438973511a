package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "huckleberry.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "huckleberry", cfg.Name)
	assert.Equal(t, "Type", cfg.Columns.Type)

	// The default config lands on disk with restrictive permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")

	orig := DefaultConfig()
	orig.Name = "custom"
	orig.Columns.Type = "Kind"
	require.NoError(t, Save(path, orig))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, "Kind", cfg.Columns.Type)
	assert.Equal(t, orig.MedicationTypes, cfg.MedicationTypes)
}

func TestLoadRejectsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	partial := `
name: partial
columns:
  type: Type
event_types:
  sleep: sleep
`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns.start")
	assert.Contains(t, err.Error(), "event_types.feed")
	assert.Contains(t, err.Error(), "med_name_column")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: [oops"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeFillsOptionalValues(t *testing.T) {
	cfg := &Config{
		Columns:       ColumnsConfig{Type: "Type", Start: "Start", End: "End"},
		EventTypes:    EventTypesConfig{Sleep: "sleep", Feed: "feed", Meds: "meds"},
		MedNameColumn: "Start Location",
	}
	cfg.Normalize()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "#3DD2E6", cfg.Visualization.Colors.Sleep)
	assert.Equal(t, 9, cfg.Visualization.WorkHours.Start)
	assert.Equal(t, 17, cfg.Visualization.WorkHours.End)
	assert.Contains(t, cfg.Visualization.Colors.Medications, "Other")
	assert.Equal(t, "Motrin", cfg.MedicationAliases["ibuprofen"])
}

func TestValidateWorkHoursRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Visualization.WorkHours.End = 25
	assert.Error(t, cfg.Validate())
}
