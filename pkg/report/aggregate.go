package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/yurifrl/festas/pkg/models"
)

// Month is one calendar-month bucket of the ledger.
type Month struct {
	Year  int
	Month time.Month
	Count int
	Total models.Cents
}

// Label returns the bucket as MM/YYYY.
func (m Month) Label() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

// Aggregate buckets entries by the month of their event date. Buckets come
// back in calendar order (year, then month), not in label order.
func Aggregate(entries []models.Entry) []Month {
	type bucketKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[bucketKey]*Month)
	for _, e := range entries {
		k := bucketKey{e.EventDate.Year(), e.EventDate.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &Month{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.Count++
		b.Total += e.Amount
	}

	months := make([]Month, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, *b)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months
}
