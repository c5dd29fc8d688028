package executors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/festas/pkg/config"
	"github.com/yurifrl/festas/pkg/csv"
	"github.com/yurifrl/festas/pkg/export"
	"github.com/yurifrl/festas/pkg/service"
)

// Filter narrows the CSV export and the preview listing. The JSON export is
// always the complete ledger.
type Filter = csv.FilterFunc[export.Record]

type Executor struct {
	logger    *log.Logger
	config    *config.Config
	processor *service.Processor
	filter    Filter
	stdout    io.Writer
	stderr    io.Writer
}

func New(logger *log.Logger, config *config.Config, filter Filter) *Executor {
	return &Executor{
		logger:    logger,
		config:    config,
		processor: service.NewProcessor(logger),
		filter:    filter,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// SetOutput redirects what the executor prints; used by tests.
func (e *Executor) SetOutput(stdout, stderr io.Writer) {
	e.stdout = stdout
	e.stderr = stderr
}

func (e *Executor) keep(r export.Record) bool {
	return e.filter == nil || e.filter(r)
}
