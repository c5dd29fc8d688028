package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yurifrl/festas/pkg/executors"
	"github.com/yurifrl/festas/pkg/export"
	"github.com/yurifrl/festas/pkg/models"
)

type filters struct {
	startDate string
	endDate   string
	minAmount float64
	maxAmount float64
	name      string
}

func (f *filters) toFilterFunc() (executors.Filter, error) {
	var start, end time.Time
	var err error
	if f.startDate != "" {
		if start, err = time.Parse(models.DateLayout, f.startDate); err != nil {
			return nil, fmt.Errorf("invalid --start %q: expected DD/MM/YYYY", f.startDate)
		}
	}
	if f.endDate != "" {
		if end, err = time.Parse(models.DateLayout, f.endDate); err != nil {
			return nil, fmt.Errorf("invalid --end %q: expected DD/MM/YYYY", f.endDate)
		}
	}
	minCents := models.Cents(math.Round(f.minAmount * 100))
	maxCents := models.Cents(math.Round(f.maxAmount * 100))
	name := strings.ToLower(f.name)

	if start.IsZero() && end.IsZero() && minCents == 0 && maxCents == 0 && name == "" {
		return nil, nil
	}

	return func(r export.Record) bool {
		date, _ := time.Parse(models.DateLayout, r.Date)
		if !start.IsZero() && date.Before(start) {
			return false
		}
		if !end.IsZero() && date.After(end) {
			return false
		}
		if minCents != 0 && r.Amount < minCents {
			return false
		}
		if maxCents != 0 && r.Amount > maxCents {
			return false
		}
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			return false
		}
		return true
	}, nil
}
