package executors

import (
	"fmt"
	"io"
	"os"

	"github.com/yurifrl/festas/pkg/csv"
	"github.com/yurifrl/festas/pkg/export"
	"github.com/yurifrl/festas/pkg/plan"
	"github.com/yurifrl/festas/pkg/report"
	"github.com/yurifrl/festas/pkg/service"
)

// Apply runs the reconciliation and writes the outputs named by the plan.
// Without a JSON output path the export goes to stdout and the summary to
// stderr.
func (e *Executor) Apply(p *plan.Plan) (*service.Result, error) {
	e.logger.Debug("applying plan", "sources", len(p.Sources))

	result, err := e.processor.Run(p)
	if err != nil {
		return nil, err
	}

	records := result.Records()
	data, err := export.Marshal(records)
	if err != nil {
		return nil, err
	}

	summaryOut := e.stdout
	if p.Output.JSON == "" {
		if _, err := e.stdout.Write(data); err != nil {
			return nil, fmt.Errorf("error writing export: %w", err)
		}
		summaryOut = e.stderr
	} else {
		if err := writeFile(p.Output.JSON, data); err != nil {
			return nil, err
		}
		e.logger.Info("wrote export", "file", p.Output.JSON, "records", len(records))
	}

	if p.Output.CSV != "" {
		out, err := csv.Create(export.Header, records, e.filter)
		if err != nil {
			return nil, fmt.Errorf("error writing csv: %w", err)
		}
		if err := writeFile(p.Output.CSV, out); err != nil {
			return nil, err
		}
		e.logger.Info("wrote csv", "file", p.Output.CSV)
	}

	if p.Output.Rejects != "" {
		out, err := export.Marshal(result.Rejections)
		if err != nil {
			return nil, err
		}
		if err := writeFile(p.Output.Rejects, out); err != nil {
			return nil, err
		}
		e.logger.Info("wrote rejections", "file", p.Output.Rejects, "count", len(result.Rejections))
	}

	if err := e.renderSummary(result, summaryOut); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Executor) renderSummary(result *service.Result, w io.Writer) error {
	var explicit report.Format
	if e.config != nil {
		f, err := report.ParseFormat(e.config.SummaryFormat)
		if err != nil {
			return err
		}
		explicit = f
	}
	return report.Render(w, result.Summary, report.DetectFormat(explicit, w))
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	return nil
}
