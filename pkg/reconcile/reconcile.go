// Package reconcile merges canonical bookings from every source into a single
// ledger. Sources are applied in priority order (models.Sources); the first
// source to see a key owns the entry and later sources may only complete an
// empty amount or theme.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yurifrl/festas/pkg/models"
)

// Status is the outcome of applying one booking to the ledger.
type Status int

const (
	// Created: first sighting of the key, the booking became an entry.
	Created Status = iota
	// Completed: the key existed and the booking filled an empty amount/theme.
	Completed
	// Unchanged: the key existed and the booking had nothing to add.
	Unchanged
	// Duplicate: the same source already supplied this key.
	Duplicate
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Completed:
		return "completed"
	case Unchanged:
		return "unchanged"
	case Duplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Decision records what happened to one booking.
type Decision struct {
	Key     string
	Booking models.Booking
	Status  Status
	// Filled lists the entry fields this booking completed.
	Filled []string
}

// Report is every merge decision in the order they were taken.
type Report struct {
	Decisions  []Decision
	NearMisses []NearMiss
}

// Count returns how many decisions have the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, d := range r.Decisions {
		if d.Status == status {
			n++
		}
	}
	return n
}

// CreatedBy returns how many entries each source established.
func (r *Report) CreatedBy() map[models.Source]int {
	out := make(map[models.Source]int, len(models.Sources))
	for _, d := range r.Decisions {
		if d.Status == Created {
			out[d.Booking.Source]++
		}
	}
	return out
}

// Ledger is the consolidated set of entries, kept in insertion order.
type Ledger struct {
	entries []*models.Entry
	index   map[string]*models.Entry
}

func newLedger() *Ledger {
	return &Ledger{index: make(map[string]*models.Entry)}
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Get returns a copy of the entry for key.
func (l *Ledger) Get(key string) (models.Entry, bool) {
	e, ok := l.index[key]
	if !ok {
		return models.Entry{}, false
	}
	return *e, true
}

// Entries returns copies of every entry in insertion order.
func (l *Ledger) Entries() []models.Entry {
	out := make([]models.Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Merge builds the ledger. Bookings may arrive in any order; they are applied
// by source priority, keeping each source's own order.
func Merge(bookings []models.Booking) (*Ledger, *Report) {
	ordered := make([]models.Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source < ordered[j].Source
	})

	ledger := newLedger()
	report := &Report{Decisions: make([]Decision, 0, len(ordered))}
	seen := make(map[string]map[models.Source]bool)

	for _, b := range ordered {
		key := Key(b.Name, b.EventDate)
		decision := Decision{Key: key, Booking: b}

		if seen[key][b.Source] {
			decision.Status = Duplicate
			report.Decisions = append(report.Decisions, decision)
			continue
		}
		if seen[key] == nil {
			seen[key] = make(map[models.Source]bool, len(models.Sources))
		}
		seen[key][b.Source] = true

		entry, ok := ledger.index[key]
		if !ok {
			entry = newEntry(key, b)
			ledger.index[key] = entry
			ledger.entries = append(ledger.entries, entry)
			decision.Status = Created
		} else {
			decision.Filled = complete(entry, b)
			decision.Status = Unchanged
			if len(decision.Filled) > 0 {
				decision.Status = Completed
			}
		}
		report.Decisions = append(report.Decisions, decision)
	}

	report.NearMisses = NearMisses(ledger.Entries())
	return ledger, report
}

func newEntry(key string, b models.Booking) *models.Entry {
	return &models.Entry{
		Key:       key,
		Name:      b.Name,
		EventDate: b.EventDate,
		Amount:    b.Amount,
		Guests:    b.Guests,
		Theme:     b.Theme,
		Honoree:   b.Honoree,
		Source:    b.Source,
	}
}

// complete fills the entry's amount and theme when they are still empty.
// Guests and honoree stay as the owning source left them, even when empty.
func complete(entry *models.Entry, b models.Booking) []string {
	var filled []string
	if entry.Amount == 0 && b.Amount != 0 {
		entry.Amount = b.Amount
		filled = append(filled, "amount")
	}
	if entry.Theme == nil && b.Theme != nil {
		entry.Theme = b.Theme
		filled = append(filled, "theme")
	}
	return filled
}

// Describe renders a decision as a single line for previews and logs.
func (d Decision) Describe() string {
	parts := []string{d.Status.String(), d.Booking.Source.String(), d.Key}
	if len(d.Filled) > 0 {
		parts = append(parts, "filled="+strings.Join(d.Filled, ","))
	}
	return strings.Join(parts, " ")
}
