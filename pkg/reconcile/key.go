package reconcile

import (
	"time"

	"github.com/yurifrl/festas/pkg/parser"
)

// Key is the identity of a booking across sources: the normalized customer
// name and the event date. Names that differ only by accents or punctuation
// produce different keys; see NearMisses.
func Key(name string, date time.Time) string {
	return parser.NormalizeName(name) + "_" + date.Format("20060102")
}
