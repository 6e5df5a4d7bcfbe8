package backup

import (
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"
)

// dayUnits are the calendar suffixes time.ParseDuration lacks.
var dayUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseDuration parses a backup age such as "48h", "7d" or "2w".
// "0" and "" mean no limit. Negative ages are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	if unit, ok := dayUnits[s[len(s)-1:]]; ok {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q: want a whole number of days or weeks", s)
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid age %q: must not be negative", s)
	}
	return d, nil
}

// FilterOptions specifies criteria for selecting backups.
type FilterOptions struct {
	Since time.Duration // Only backups newer than now-Since (0=all)
	Theme string        // Only backups taken before applying this theme (short name)
	Limit int           // Maximum results (0=unlimited)
}

// Filter selects backups from records, preserving their order.
func Filter(records iter.Seq[Record], opts FilterOptions, now time.Time) []Record {
	var result []Record
	for r := range records {
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}

		// Time filter
		if opts.Since > 0 && r.CreatedAt.Before(now.Add(-opts.Since)) {
			continue
		}

		// Theme filter
		if opts.Theme != "" && !strings.EqualFold(r.Theme, opts.Theme) {
			continue
		}

		result = append(result, r)
	}
	return result
}

// PruneOptions specifies which backups to remove.
type PruneOptions struct {
	OlderThan time.Duration // Remove backups older than this (0=no age limit)
	Keep      int           // Keep only the N most recent (0=unlimited)
	DryRun    bool          // Report without removing
}

// PlanPrune returns the backups from records (newest first) that opts removes.
// A backup is removed when it is older than OlderThan or beyond the Keep
// most recent; each backup is listed once.
func PlanPrune(records []Record, opts PruneOptions, now time.Time) []Record {
	var remove []Record
	for i, r := range records {
		tooOld := opts.OlderThan > 0 && r.CreatedAt.Before(now.Add(-opts.OlderThan))
		beyondKeep := opts.Keep > 0 && i >= opts.Keep
		if tooOld || beyondKeep {
			remove = append(remove, r)
		}
	}
	return remove
}

// Prune removes the backups selected by opts and returns them.
// With DryRun set nothing is removed.
func (m *Manager) Prune(opts PruneOptions) ([]Record, error) {
	if opts.OlderThan <= 0 && opts.Keep <= 0 {
		return nil, fmt.Errorf("prune needs an age limit or a keep count")
	}

	remove := PlanPrune(m.List(), opts, m.now())
	if opts.DryRun {
		return remove, nil
	}

	for i, r := range remove {
		if err := os.RemoveAll(r.Path); err != nil {
			return remove[:i], fmt.Errorf("failed to remove %s: %w", r.ID, err)
		}
		m.logger.Debug("removed backup", "id", r.ID)
	}

	m.logger.Info("pruned backups", "removed", len(remove))
	return remove, nil
}
