package report

import (
	"math"

	"github.com/yurifrl/festas/pkg/models"
)

// SourceStats counts what one source contributed.
type SourceStats struct {
	Source models.Source
	// Read is the number of non-empty records found in the source.
	Read int
	// Bookings is how many records were eligible for matching.
	Bookings   int
	Rejected   int
	Duplicates int
	// Created is how many ledger entries this source established.
	Created int
	// Completed is how many existing entries this source filled in.
	Completed int
}

// Summary is the human-facing digest of a reconciliation run.
type Summary struct {
	Sources    []SourceStats
	Entries    int
	Months     []Month
	Total      models.Cents
	Average    models.Cents
	Guests     int
	NearMisses int
}

// Summarize computes ledger-wide totals. Average is zero for an empty ledger.
func Summarize(entries []models.Entry, sources []SourceStats, nearMisses int) Summary {
	s := Summary{
		Sources:    sources,
		Entries:    len(entries),
		Months:     Aggregate(entries),
		NearMisses: nearMisses,
	}
	for _, e := range entries {
		s.Total += e.Amount
		s.Guests += e.Guests
	}
	if s.Entries > 0 {
		s.Average = models.Cents(math.Round(float64(s.Total) / float64(s.Entries)))
	}
	return s
}
