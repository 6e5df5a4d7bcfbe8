package backup

import (
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"0", 0, false},
		{"", 0, false},
		{"1h", time.Hour, false},
		{"48h", 48 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"invalid", 0, true},
		{"xd", 0, true},
		{"xw", 0, true},
		{" 3d ", 3 * 24 * time.Hour, false},
		{"-1d", 0, true},
		{"-2h", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

var selectNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

// ages returns records newest first, created the given number of hours before selectNow.
func ages(hours ...int) []Record {
	var records []Record
	for _, h := range hours {
		created := selectNow.Add(-time.Duration(h) * time.Hour)
		records = append(records, Record{ID: created.Format(NamePrefix + TimestampLayout), CreatedAt: created})
	}
	return records
}

func ids(records []Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	records := ages(1, 5, 30, 200)
	records[0].Theme = "seajay"
	records[2].Theme = "SeaJay"

	t.Run("no filters", func(t *testing.T) {
		result := Filter(slices.Values(records), FilterOptions{}, selectNow)
		assert.Equal(t, ids(records), ids(result))
	})

	t.Run("since", func(t *testing.T) {
		result := Filter(slices.Values(records), FilterOptions{Since: 24 * time.Hour}, selectNow)
		assert.Equal(t, ids(records[:2]), ids(result))
	})

	t.Run("theme", func(t *testing.T) {
		result := Filter(slices.Values(records), FilterOptions{Theme: "seajay"}, selectNow)
		assert.Equal(t, []string{records[0].ID, records[2].ID}, ids(result))
	})

	t.Run("limit", func(t *testing.T) {
		result := Filter(slices.Values(records), FilterOptions{Limit: 3}, selectNow)
		assert.Len(t, result, 3)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Filter(slices.Values([]Record(nil)), FilterOptions{}, selectNow))
	})
}

func TestPlanPrune(t *testing.T) {
	records := ages(1, 5, 30, 200)

	tests := []struct {
		name     string
		opts     PruneOptions
		expected []Record
	}{
		{"older than", PruneOptions{OlderThan: 24 * time.Hour}, records[2:]},
		{"keep", PruneOptions{Keep: 1}, records[1:]},
		{"keep more than exist", PruneOptions{Keep: 10}, nil},
		{"both are a union", PruneOptions{OlderThan: 100 * time.Hour, Keep: 2}, records[2:]},
		{"nothing selected", PruneOptions{OlderThan: 1000 * time.Hour}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ids(tt.expected), ids(PlanPrune(records, tt.opts, selectNow)))
		})
	}
}

func TestPrune(t *testing.T) {
	f := newFixture(t)
	start := selectNow.Add(-72 * time.Hour)
	m := newManager(f, clock(start, 24*time.Hour))

	for range 3 {
		_, err := m.Create("")
		require.NoError(t, err)
	}
	all := m.List()
	require.Len(t, all, 3)

	m.now = func() time.Time { return selectNow }

	_, err := m.Prune(PruneOptions{})
	assert.Error(t, err)

	planned, err := m.Prune(PruneOptions{Keep: 1, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, ids(all[1:]), ids(planned))
	assert.Len(t, m.List(), 3)

	removed, err := m.Prune(PruneOptions{Keep: 1})
	require.NoError(t, err)
	assert.Equal(t, ids(all[1:]), ids(removed))
	for _, r := range removed {
		assert.NoDirExists(t, r.Path)
	}
	assert.Equal(t, ids(all[:1]), ids(m.List()))
}

func TestGet_ByIndex(t *testing.T) {
	f := newFixture(t)
	m := newManager(f, clock(selectNow, time.Minute))

	_, err := m.Get("1")
	assert.True(t, errors.Is(err, ErrBackupNotFound))

	for range 3 {
		_, err := m.Create("")
		require.NoError(t, err)
	}
	all := m.List()

	for i, want := range all {
		r, err := m.Get(strconv.Itoa(i + 1))
		require.NoError(t, err)
		assert.Equal(t, want.ID, r.ID)
	}

	_, err = m.Get("4")
	assert.True(t, errors.Is(err, ErrBackupNotFound))
	_, err = m.Get("0")
	assert.True(t, errors.Is(err, ErrBackupNotFound))
}
