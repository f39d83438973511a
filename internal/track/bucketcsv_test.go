package track

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepviz/internal/model"
)

func TestGridCSVRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	grid, err := Bucketize([]model.Event{
		sleepEvent(at(2024, 1, 15, 20, 30), at(2024, 1, 16, 6, 45)),
		{Type: model.EventFeed, Start: at(2024, 1, 15, 9, 17)},
		{Type: model.EventMeds, Start: at(2024, 1, 15, 8, 1), MedName: "Tylenol"},
		{Type: model.EventMeds, Start: at(2024, 1, 15, 8, 4), MedName: "Vitamin D"},
	}, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, grid))

	t.Run("dense with stable schema", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, "day,bucket,sleep,feed,meds", lines[0])
		assert.Len(t, lines, 1+grid.Days*grid.BucketsPerDay)
		// Both meds share one bucket, semicolon-joined.
		assert.Contains(t, buf.String(), "0,12,0,0,Tylenol;Vitamin D")
	})

	t.Run("reading back reproduces every cell", func(t *testing.T) {
		got, err := ReadGrid(bytes.NewReader(buf.Bytes()), opts)
		require.NoError(t, err)
		require.Equal(t, grid.Days, got.Days)
		assert.Empty(t, cmp.Diff(dense(grid), dense(got)))
	})
}

func TestReadGridErrors(t *testing.T) {
	opts := DefaultOptions()

	t.Run("wrong header", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("a,b,c,d,e\n"), opts)
		assert.Error(t, err)
	})

	t.Run("no data rows", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("day,bucket,sleep,feed,meds\n"), opts)
		assert.Error(t, err)
	})

	t.Run("bucket out of range for bucket width", func(t *testing.T) {
		// Bucket 300 cannot come from 5-minute buckets (288/day).
		_, err := ReadGrid(strings.NewReader("day,bucket,sleep,feed,meds\n0,300,1,0,\n"), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("bad day", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("day,bucket,sleep,feed,meds\nx,0,1,0,\n"), opts)
		assert.Error(t, err)
	})
}
