package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/festas/pkg/export"
	"github.com/yurifrl/festas/pkg/models"
	"github.com/yurifrl/festas/pkg/parser"
	"github.com/yurifrl/festas/pkg/plan"
	"github.com/yurifrl/festas/pkg/reconcile"
	"github.com/yurifrl/festas/pkg/report"
)

// ErrSourceUnavailable marks a source that could not be read at all. It is
// always fatal: a run never produces a ledger from a partial set of sources.
var ErrSourceUnavailable = errors.New("source unavailable")

// Input is one source file already read into memory.
type Input struct {
	Source   models.Source
	Filename string
	Sheet    string
	Data     []byte
}

// Result is everything a reconciliation run produced.
type Result struct {
	Batches    []*parser.Batch
	Ledger     *reconcile.Ledger
	Report     *reconcile.Report
	Rejections []models.Rejection
	Summary    report.Summary
}

// Records returns the export records, sorted by event date.
func (r *Result) Records() []export.Record {
	return export.Records(r.Ledger.Entries())
}

type Processor struct {
	logger *log.Logger
	parser *parser.Parser
}

func NewProcessor(logger *log.Logger) *Processor {
	return &Processor{
		logger: logger,
		parser: parser.New(logger),
	}
}

// Load reads every source of the plan from disk.
func (p *Processor) Load(pl *plan.Plan) ([]Input, error) {
	inputs := make([]Input, 0, len(pl.Sources))
	for _, src := range pl.Sources {
		source, err := models.ParseSource(src.Type)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source.ID(), err)
		}
		p.logger.Debug("loaded source", "source", source, "file", src.File, "bytes", len(data))
		inputs = append(inputs, Input{Source: source, Filename: filepath.Base(src.File), Sheet: src.Sheet, Data: data})
	}
	return inputs, nil
}

// Reconcile parses every input, merges the bookings and summarizes the
// ledger. Every source must be present. It has no side effects besides
// logging.
func (p *Processor) Reconcile(inputs []Input) (*Result, error) {
	if err := requireAll(inputs); err != nil {
		return nil, err
	}

	result := &Result{}
	var bookings []models.Booking

	for _, in := range inputs {
		batch, err := p.parser.ProcessBytes(in.Data, in.Filename, in.Source, in.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %w", ErrSourceUnavailable, in.Source.ID(), in.Filename, err)
		}
		result.Batches = append(result.Batches, batch)
		result.Rejections = append(result.Rejections, batch.Rejections...)
		bookings = append(bookings, batch.Bookings...)
	}

	result.Ledger, result.Report = reconcile.Merge(bookings)
	for _, nm := range result.Report.NearMisses {
		p.logger.Warn("names differ only by accents or punctuation", "date", nm.Date.Format(models.DateLayout), "names", nm.Names)
	}

	result.Summary = report.Summarize(result.Ledger.Entries(), sourceStats(result.Batches, result.Report), len(result.Report.NearMisses))
	p.logger.Info("reconciliation complete",
		"entries", result.Ledger.Len(),
		"rejected", len(result.Rejections),
		"completed", result.Report.Count(reconcile.Completed),
		"duplicates", result.Report.Count(reconcile.Duplicate))
	return result, nil
}

func requireAll(inputs []Input) error {
	present := make(map[models.Source]bool, len(inputs))
	for _, in := range inputs {
		present[in.Source] = true
	}
	for _, src := range models.Sources {
		if !present[src] {
			return fmt.Errorf("%w: %s: no file configured", ErrSourceUnavailable, src.ID())
		}
	}
	return nil
}

// Run loads and reconciles a plan.
func (p *Processor) Run(pl *plan.Plan) (*Result, error) {
	inputs, err := p.Load(pl)
	if err != nil {
		return nil, err
	}
	return p.Reconcile(inputs)
}

func sourceStats(batches []*parser.Batch, rep *reconcile.Report) []report.SourceStats {
	index := make(map[models.Source]*report.SourceStats, len(batches))
	stats := make([]report.SourceStats, len(batches))
	for i, b := range batches {
		stats[i] = report.SourceStats{
			Source:   b.Source,
			Read:     b.Read,
			Bookings: len(b.Bookings),
			Rejected: len(b.Rejections),
		}
		index[b.Source] = &stats[i]
	}
	for _, d := range rep.Decisions {
		st, ok := index[d.Booking.Source]
		if !ok {
			continue
		}
		switch d.Status {
		case reconcile.Created:
			st.Created++
		case reconcile.Completed:
			st.Completed++
		case reconcile.Duplicate:
			st.Duplicates++
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Source < stats[j].Source })
	return stats
}
