package detection

import (
	"math"
	"strings"
)

// ActorRecord is one detected actor: a 1-based sequence id, the glyph's
// body-center position, and the caption read beneath it (possibly empty).
// Records are immutable once built.
type ActorRecord struct {
	ID      int    `json:"actor_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Caption string `json:"name"`
}

// Stats summarizes a filter-and-renumber pass over detected actors.
type Stats struct {
	TotalDetected int `json:"total_detected"`
	WithNames     int `json:"with_names"`
	WithoutNames  int `json:"without_names"`
	FinalCount    int `json:"in_final_report"`
}

// Merge removes near-duplicate records and renumbers the survivors.
//
// Records are processed in their given (detection) order: one is retained
// only if its position is farther than radius pixels from every previously
// retained record. First wins; there is no score weighting. Survivors get
// ids 1..n in retention order.
//
// Merge is a fixed point: applying it to its own output changes nothing,
// since all surviving pairs are already farther apart than radius.
func Merge(records []ActorRecord, radius float64) []ActorRecord {
	merged := make([]ActorRecord, 0, len(records))
	for _, r := range records {
		duplicate := false
		for _, kept := range merged {
			dx := float64(r.X - kept.X)
			dy := float64(r.Y - kept.Y)
			if math.Sqrt(dx*dx+dy*dy) <= radius {
				duplicate = true
				break
			}
		}
		if !duplicate {
			r.ID = len(merged) + 1
			merged = append(merged, r)
		}
	}
	return merged
}

// FilterAndRenumber removes records whose caption is empty or whitespace-only
// and renumbers the remainder starting at 1, producing the list shown in
// reports. The unfiltered input and the filtered output are both valid views:
// diagnostic consumers want every confirmed detection, printable reports only
// the named ones.
func FilterAndRenumber(records []ActorRecord) ([]ActorRecord, Stats) {
	named := make([]ActorRecord, 0, len(records))
	for _, r := range records {
		caption := strings.TrimSpace(r.Caption)
		if caption == "" {
			continue
		}
		r.ID = len(named) + 1
		r.Caption = caption
		named = append(named, r)
	}

	return named, Stats{
		TotalDetected: len(records),
		WithNames:     len(named),
		WithoutNames:  len(records) - len(named),
		FinalCount:    len(named),
	}
}
