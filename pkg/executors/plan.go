package executors

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp/v3"

	"github.com/yurifrl/festas/pkg/export"
	"github.com/yurifrl/festas/pkg/models"
	"github.com/yurifrl/festas/pkg/plan"
	"github.com/yurifrl/festas/pkg/reconcile"
	"github.com/yurifrl/festas/pkg/report"
	"github.com/yurifrl/festas/pkg/service"
)

var (
	createdStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	duplicateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
)

// Plan runs the reconciliation without writing anything and prints every
// merge decision followed by the summary.
func (e *Executor) Plan(p *plan.Plan) (*service.Result, error) {
	e.logger.Debug("planning", "sources", len(p.Sources))

	result, err := e.processor.Run(p)
	if err != nil {
		return nil, err
	}

	printer := pp.New()
	printer.SetColoringEnabled(false)

	for _, d := range result.Report.Decisions {
		if !e.keep(decisionRecord(d)) {
			continue
		}
		fmt.Fprintln(e.stdout, previewLine(d))
		if e.config != nil && e.config.Dump {
			printer.Fprintln(e.stdout, d)
		}
	}

	for _, r := range result.Rejections {
		fmt.Fprintln(e.stdout, duplicateStyle.Render(fmt.Sprintf("x %-15s | row %-4d | %s | %s %s", r.Source, r.Row, r.Reason, r.Name, r.Date)))
	}
	for _, nm := range result.Report.NearMisses {
		fmt.Fprintln(e.stdout, completedStyle.Render(fmt.Sprintf("? %s | %s", nm.Date.Format(models.DateLayout), strings.Join(nm.Names, " / "))))
	}

	fmt.Fprintf(e.stdout, "\nPlan: %d festa(s) in the ledger, %d completed from lower-priority sources, %d duplicate(s), %d rejected\n\n",
		result.Ledger.Len(), result.Report.Count(reconcile.Completed), result.Report.Count(reconcile.Duplicate), len(result.Rejections))

	if err := e.renderSummary(result, e.stdout); err != nil {
		return nil, err
	}
	return result, nil
}

func previewLine(d reconcile.Decision) string {
	b := d.Booking
	line := fmt.Sprintf("%s | %-30s | %-15s | %s", b.EventDate.Format(models.DateLayout), b.Name, b.Source, report.Money(b.Amount))
	switch d.Status {
	case reconcile.Created:
		return createdStyle.Render("+ " + line)
	case reconcile.Completed:
		return completedStyle.Render("~ " + line + " | " + strings.Join(d.Filled, ","))
	case reconcile.Duplicate:
		return duplicateStyle.Render("! " + line)
	default:
		return unchangedStyle.Render("= " + line)
	}
}

func decisionRecord(d reconcile.Decision) export.Record {
	b := d.Booking
	return export.NewRecord(models.Entry{
		Key:       d.Key,
		Name:      b.Name,
		EventDate: b.EventDate,
		Amount:    b.Amount,
		Guests:    b.Guests,
		Theme:     b.Theme,
		Honoree:   b.Honoree,
		Source:    b.Source,
	})
}
