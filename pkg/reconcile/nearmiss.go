package reconcile

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yurifrl/festas/pkg/models"
)

// NearMiss groups ledger entries on the same date whose names only differ by
// accents, punctuation or spacing. They are reported, never merged.
type NearMiss struct {
	Date  time.Time
	Keys  []string
	Names []string
}

// foldName strips diacritics and punctuation and collapses whitespace.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, folded)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// NearMisses finds entries that would have matched under a looser name rule.
func NearMisses(entries []models.Entry) []NearMiss {
	groups := make(map[string]*NearMiss)
	var order []string
	for _, e := range entries {
		id := foldName(e.Name) + "_" + e.EventDate.Format("20060102")
		g, ok := groups[id]
		if !ok {
			g = &NearMiss{Date: e.EventDate}
			groups[id] = g
			order = append(order, id)
		}
		g.Keys = append(g.Keys, e.Key)
		g.Names = append(g.Names, e.Name)
	}

	var out []NearMiss
	for _, id := range order {
		if g := groups[id]; len(g.Keys) > 1 {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
