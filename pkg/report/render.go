package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/festas/pkg/models"
)

// Format selects how a Summary is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// Money formats centavos as Brazilian reais, e.g. "R$ 1.234,56".
func Money(c models.Cents) string {
	return brl.Sprintf("R$ %.2f", c.Reais())
}

// ParseFormat validates a format name. Empty is allowed and means "detect".
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}

// DetectFormat returns explicit when set, otherwise a table for terminals and
// JSON for pipes and files.
func DetectFormat(explicit Format, w io.Writer) Format {
	if explicit != "" {
		return explicit
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return FormatTable
		}
	}
	return FormatJSON
}

// Render writes the summary to w.
func Render(w io.Writer, s Summary, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(newView(s))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newView(s)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderTables(w, s)
	}
}

type sourceView struct {
	Source     string `json:"source" yaml:"source"`
	Read       int    `json:"read" yaml:"read"`
	Bookings   int    `json:"bookings" yaml:"bookings"`
	Rejected   int    `json:"rejected" yaml:"rejected"`
	Duplicates int    `json:"duplicates" yaml:"duplicates"`
	Created    int    `json:"created" yaml:"created"`
	Completed  int    `json:"completed" yaml:"completed"`
}

type monthView struct {
	Month string       `json:"month" yaml:"month"`
	Count int          `json:"count" yaml:"count"`
	Total models.Cents `json:"total" yaml:"total"`
}

type summaryView struct {
	Sources    []sourceView `json:"sources" yaml:"sources"`
	Entries    int          `json:"entries" yaml:"entries"`
	Months     []monthView  `json:"months" yaml:"months"`
	Total      models.Cents `json:"total" yaml:"total"`
	Average    models.Cents `json:"average" yaml:"average"`
	Guests     int          `json:"guests" yaml:"guests"`
	NearMisses int          `json:"near_misses" yaml:"near_misses"`
}

func newView(s Summary) summaryView {
	v := summaryView{
		Sources:    make([]sourceView, 0, len(s.Sources)),
		Entries:    s.Entries,
		Months:     make([]monthView, 0, len(s.Months)),
		Total:      s.Total,
		Average:    s.Average,
		Guests:     s.Guests,
		NearMisses: s.NearMisses,
	}
	for _, st := range s.Sources {
		v.Sources = append(v.Sources, sourceView{
			Source:     st.Source.String(),
			Read:       st.Read,
			Bookings:   st.Bookings,
			Rejected:   st.Rejected,
			Duplicates: st.Duplicates,
			Created:    st.Created,
			Completed:  st.Completed,
		})
	}
	for _, m := range s.Months {
		v.Months = append(v.Months, monthView{Month: m.Label(), Count: m.Count, Total: m.Total})
	}
	return v
}

func renderTables(w io.Writer, s Summary) error {
	sources := tablewriter.NewTable(w)
	sources.Header("Source", "Records", "Eligible", "Rejected", "Duplicates", "Created", "Completed")
	for _, st := range s.Sources {
		if err := sources.Append(st.Source.String(), itoa(st.Read), itoa(st.Bookings), itoa(st.Rejected),
			itoa(st.Duplicates), itoa(st.Created), itoa(st.Completed)); err != nil {
			return err
		}
	}
	if err := sources.Render(); err != nil {
		return err
	}

	months := tablewriter.NewTable(w)
	months.Header("Month", "Festas", "Amount")
	for _, m := range s.Months {
		if err := months.Append(m.Label(), itoa(m.Count), Money(m.Total)); err != nil {
			return err
		}
	}
	if err := months.Render(); err != nil {
		return err
	}

	totals := tablewriter.NewTable(w)
	totals.Header("Festas", "Total", "Average", "Guests", "Near misses")
	if err := totals.Append(itoa(s.Entries), Money(s.Total), Money(s.Average), itoa(s.Guests), itoa(s.NearMisses)); err != nil {
		return err
	}
	return totals.Render()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
