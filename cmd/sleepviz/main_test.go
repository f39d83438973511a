package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayZero(t *testing.T) {
	t.Run("valid date lands on the day start hour", func(t *testing.T) {
		got, err := parseDayZero("2024-01-15", 7)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 7, 0, 0, 0, time.Local), got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parseDayZero("", 7)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseDayZero("15/01/2024", 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "day-zero")
	})
}

const testExport = `Type,Start,End,Duration,Start Conditions,Start Location,End Conditions,Notes
sleep,2024-01-15 20:00,2024-01-16 06:30,10:30,,,,
sleep,2024-01-16 13:00,2024-01-16 14:30,1:30,,,,
feed,2024-01-15 09:15,,,,,,
meds,2024-01-15 08:00,2024-01-15 08:00,,1ml,Vitamin D,,
`

func TestRootCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(input, []byte(testExport), 0o600))

	output := filepath.Join(dir, "heatmap.png")
	buckets := filepath.Join(dir, "buckets.csv")
	ics := filepath.Join(dir, "sleep.ics")
	configPath := filepath.Join(dir, "huckleberry.yaml")

	root := newRootCmd()
	root.SetArgs([]string{
		input,
		"--day-zero", "2024-01-15",
		"-o", output,
		"-c", configPath,
		"--save-buckets", buckets,
		"--save-ics", ics,
	})
	require.NoError(t, root.Execute())

	t.Run("writes a decodable PNG", func(t *testing.T) {
		f, err := os.Open(output)
		require.NoError(t, err)
		defer f.Close()

		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Positive(t, img.Bounds().Dx())
		assert.Positive(t, img.Bounds().Dy())
	})

	t.Run("writes the intermediate artifacts", func(t *testing.T) {
		b, err := os.ReadFile(buckets)
		require.NoError(t, err)
		assert.Contains(t, string(b), "day,bucket,sleep,feed,meds")

		i, err := os.ReadFile(ics)
		require.NoError(t, err)
		assert.Contains(t, string(i), "BEGIN:VCALENDAR")
	})

	t.Run("first run created the default config", func(t *testing.T) {
		_, err := os.Stat(configPath)
		assert.NoError(t, err)
	})
}

func TestRenderSubcommandFromBuckets(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(input, []byte(testExport), 0o600))

	buckets := filepath.Join(dir, "buckets.csv")
	configPath := filepath.Join(dir, "huckleberry.yaml")

	parse := newRootCmd()
	parse.SetArgs([]string{"parse", input, "-o", buckets, "-c", configPath})
	require.NoError(t, parse.Execute())

	output := filepath.Join(dir, "heatmap.png")
	render := newRootCmd()
	render.SetArgs([]string{
		"render", buckets,
		"--day-zero", "2024-01-15",
		"-o", output,
		"-c", configPath,
	})
	require.NoError(t, render.Execute())

	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestSampleSubcommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sample.csv")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"sample", "--days", "10", "--start-date", "2024-01-15", "-o", out})
	require.NoError(t, cmd.Execute())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Type,Start,End")
	assert.Contains(t, string(b), "sleep,")
	assert.Contains(t, string(b), "feed,")
}