package model

import "sort"

// RawRow is one cleaned observation before aggregation.
// The source may hold several rows for the same key (for example one per
// financial-year suffix), so Count is summed by the aggregate step.
type RawRow struct {
	Year    int
	Borough string
	Offence string
	Count   float64
}

// OffenceRecord is one aggregated count of offences.
// For a fixed (Year, Borough, Offence) key at most one record exists.
type OffenceRecord struct {
	Year    int    `json:"year"`
	Borough string `json:"borough"`
	Offence string `json:"offence"`
	Count   int64  `json:"count"`
}

// RecordKey identifies an aggregated record.
type RecordKey struct {
	Year    int
	Borough string
	Offence string
}

// Key returns the aggregation key of the record.
func (r OffenceRecord) Key() RecordKey {
	return RecordKey{Year: r.Year, Borough: r.Borough, Offence: r.Offence}
}

// SortRecords orders records by borough, offence, then year.
func SortRecords(records []OffenceRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Borough != b.Borough {
			return a.Borough < b.Borough
		}
		if a.Offence != b.Offence {
			return a.Offence < b.Offence
		}
		return a.Year < b.Year
	})
}

// ToRawRows converts aggregated records back into raw rows.
// Feeding the result to the aggregate step reproduces the same records.
func ToRawRows(records []OffenceRecord) []RawRow {
	rows := make([]RawRow, len(records))
	for i, r := range records {
		rows[i] = RawRow{
			Year:    r.Year,
			Borough: r.Borough,
			Offence: r.Offence,
			Count:   float64(r.Count),
		}
	}
	return rows
}

// LatestYear returns the most recent year present in records, or 0.
func LatestYear(records []OffenceRecord) int {
	latest := 0
	for _, r := range records {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

func distinct(records []OffenceRecord, field func(OffenceRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
