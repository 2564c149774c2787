// ABOUTME: Source aggregator: dedup, grouping by norma, and adaptive disclosure
// ABOUTME: Derives presentation groups from scratch on every call, never persisted
package sources

import (
	"fmt"

	"github.com/fperez/normativa/internal/models"
)

// SourceGroup is a presentation-only aggregate of one norma's fragments.
type SourceGroup struct {
	// Key is the norma id when known, else the display title.
	Key    string            `json:"key"`
	Titulo string            `json:"titulo"`
	Items  []models.Fragment `json:"items"`
	// Visible is the subset disclosed by the confidence-adaptive policy;
	// len(Items) lets the caller render a "show N more" affordance.
	Visible  []models.Fragment `json:"visible"`
	Expanded bool              `json:"expanded"`
}

// Config holds the aggregation policy knobs.
type Config struct {
	// ScoreFloor excludes low-relevance noise from the grouped view,
	// independent of the relevance gate's own threshold.
	ScoreFloor float64
	// HighConfidence is the top-score cutoff for single-norma disclosure.
	HighConfidence float64
	// MaxPerGroup and MaxTotal cap default disclosure at normal confidence.
	MaxPerGroup int
	MaxTotal    int
	// TopGroupVisible caps default disclosure at high confidence.
	TopGroupVisible int
	// SignatureChars is the text-prefix length of the duplicate fingerprint.
	SignatureChars int
}

// Aggregator groups deduplicated fragments for presentation.
type Aggregator struct {
	config Config
}

// New creates an aggregator.
func New(config Config) *Aggregator {
	return &Aggregator{config: config}
}

// Aggregate deduplicates fragments, groups them by norma, and applies
// the disclosure policy. expanded holds the group keys the caller has
// explicitly opened. Input order (similarity descending) is preserved
// within and across groups.
func (a *Aggregator) Aggregate(fragments []models.Fragment, expanded map[string]bool) []SourceGroup {
	deduped := a.dedup(fragments)
	if len(deduped) == 0 {
		return nil
	}

	groups := a.group(deduped)

	if deduped[0].Score >= a.config.HighConfidence {
		return a.discloseHighConfidence(groups, GroupKey(deduped[0]), expanded)
	}
	return a.discloseNormal(groups, expanded)
}

// GroupKey returns the grouping key for a fragment: norma id when
// present, else the display title. Two id-less normas sharing a title
// collide into one group by design.
func GroupKey(f models.Fragment) string {
	if f.NormaID != nil {
		return fmt.Sprintf("%d", *f.NormaID)
	}
	return f.Titulo()
}

// dedup drops repeated ids, repeated content signatures, and fragments
// under the score floor, keeping the first occurrence in input order.
func (a *Aggregator) dedup(fragments []models.Fragment) []models.Fragment {
	seenIDs := make(map[string]bool)
	seenSigs := make(map[string]bool)
	var out []models.Fragment

	for _, f := range fragments {
		if f.Score < a.config.ScoreFloor {
			continue
		}
		if f.ID != "" && seenIDs[f.ID] {
			continue
		}
		sig := a.signature(f)
		if seenSigs[sig] {
			continue
		}
		if f.ID != "" {
			seenIDs[f.ID] = true
		}
		seenSigs[sig] = true
		out = append(out, f)
	}
	return out
}

// signature is a heuristic content fingerprint, not a hash: norma id,
// section, type, and a short text prefix. Collisions on generic prefixes
// are an accepted approximation.
func (a *Aggregator) signature(f models.Fragment) string {
	normaID := ""
	if f.NormaID != nil {
		normaID = fmt.Sprintf("%d", *f.NormaID)
	}
	runes := []rune(f.Texto)
	if len(runes) > a.config.SignatureChars {
		runes = runes[:a.config.SignatureChars]
	}
	return fmt.Sprintf("%s-%s-%s-%s", normaID, f.Seccion, f.Tipo, string(runes))
}

// group buckets fragments by key in order of first appearance.
func (a *Aggregator) group(fragments []models.Fragment) []SourceGroup {
	index := make(map[string]int)
	var groups []SourceGroup

	for _, f := range fragments {
		key := GroupKey(f)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SourceGroup{Key: key, Titulo: f.Titulo()})
		}
		groups[i].Items = append(groups[i].Items, f)
	}
	return groups
}

// discloseHighConfidence restricts the view to the top fragment's group.
func (a *Aggregator) discloseHighConfidence(groups []SourceGroup, topKey string, expanded map[string]bool) []SourceGroup {
	for _, g := range groups {
		if g.Key != topKey {
			continue
		}
		g.Expanded = expanded[g.Key]
		if g.Expanded {
			g.Visible = g.Items
		} else {
			n := min(len(g.Items), a.config.TopGroupVisible)
			g.Visible = g.Items[:n]
		}
		return []SourceGroup{g}
	}
	return nil
}

// discloseNormal caps visibility per group and globally, allocating the
// global quota greedily in group order. An expanded group shows all of
// its items and still consumes quota for the groups after it.
func (a *Aggregator) discloseNormal(groups []SourceGroup, expanded map[string]bool) []SourceGroup {
	remaining := a.config.MaxTotal
	var out []SourceGroup

	for _, g := range groups {
		g.Expanded = expanded[g.Key]
		if g.Expanded {
			g.Visible = g.Items
		} else {
			n := min(len(g.Items), a.config.MaxPerGroup)
			if n > remaining {
				n = remaining
			}
			if n < 0 {
				n = 0
			}
			g.Visible = g.Items[:n]
		}
		remaining -= len(g.Visible)

		if len(g.Visible) > 0 {
			out = append(out, g)
		}
	}
	return out
}
