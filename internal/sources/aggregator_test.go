// ABOUTME: Tests for source deduplication, grouping, and disclosure policy
// ABOUTME: Covers id/signature dedup, score floor, and both confidence modes
package sources

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fperez/normativa/internal/models"
)

func testConfig() Config {
	return Config{
		ScoreFloor:      0.55,
		HighConfidence:  0.70,
		MaxPerGroup:     2,
		MaxTotal:        4,
		TopGroupVisible: 2,
		SignatureChars:  40,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func frag(id string, normaID int64, seccion string, score float64) models.Fragment {
	return models.Fragment{
		ID:          id,
		NormaID:     int64Ptr(normaID),
		NormaTitulo: fmt.Sprintf("Norma %d", normaID),
		Seccion:     seccion,
		Texto:       fmt.Sprintf("Texto de %s en la norma %d con contenido suficiente.", id, normaID),
		Score:       score,
	}
}

func TestAggregate_DedupByID(t *testing.T) {
	a := New(testConfig())

	first := frag("dup", 1, "Art. 1", 0.65)
	second := frag("dup", 1, "Art. 2", 0.60)
	second.Texto = "Texto distinto para que la firma de contenido no coincida."

	groups := a.Aggregate([]models.Fragment{first, second}, nil)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0].Items) != 1 {
		t.Fatalf("got %d items, want 1 after id dedup", len(groups[0].Items))
	}
	if groups[0].Items[0].Seccion != "Art. 1" {
		t.Error("dedup must keep the first occurrence")
	}
}

func TestAggregate_DedupBySignature(t *testing.T) {
	a := New(testConfig())

	shared := strings.Repeat("mismo contenido textual repetido ", 3)
	first := frag("a", 1, "Art. 1", 0.66)
	first.Texto = shared
	second := frag("b", 1, "Art. 1", 0.60)
	second.Texto = shared + " con una cola distinta tras los primeros cuarenta caracteres"

	groups := a.Aggregate([]models.Fragment{first, second}, nil)

	if len(groups) != 1 || len(groups[0].Items) != 1 {
		t.Fatalf("signature dedup failed: %+v", groups)
	}
	if groups[0].Items[0].ID != "a" {
		t.Error("dedup must keep the first occurrence by input order")
	}
}

func TestAggregate_ScoreFloor(t *testing.T) {
	a := New(testConfig())

	groups := a.Aggregate([]models.Fragment{
		frag("keep", 1, "Art. 1", 0.56),
		frag("drop", 1, "Art. 2", 0.54),
	}, nil)

	if len(groups) != 1 || len(groups[0].Items) != 1 {
		t.Fatalf("expected one surviving fragment, got %+v", groups)
	}
	if groups[0].Items[0].ID != "keep" {
		t.Error("fragment under the score floor must be dropped")
	}
}

func TestAggregate_TitleFallbackGrouping(t *testing.T) {
	a := New(testConfig())

	orphan1 := models.Fragment{ID: "o1", NormaTitulo: "Guía técnica", Texto: "Texto primero del documento sin identificador.", Score: 0.60}
	orphan2 := models.Fragment{ID: "o2", NormaTitulo: "Guía técnica", Texto: "Texto segundo, distinto, del documento sin identificador.", Score: 0.58}

	groups := a.Aggregate([]models.Fragment{orphan1, orphan2}, nil)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 keyed by shared title", len(groups))
	}
	if groups[0].Key != "Guía técnica" {
		t.Errorf("group key = %q, want title", groups[0].Key)
	}
	if len(groups[0].Items) != 2 {
		t.Errorf("got %d items, want both id-less fragments", len(groups[0].Items))
	}
}

func TestAggregate_NormalConfidenceCaps(t *testing.T) {
	a := New(testConfig())

	// 3 normas x 3 fragments, all below the high-confidence cutoff.
	var frags []models.Fragment
	score := 0.69
	for n := int64(1); n <= 3; n++ {
		for i := 0; i < 3; i++ {
			frags = append(frags, frag(fmt.Sprintf("n%d-%d", n, i), n, fmt.Sprintf("Art. %d", i), score))
			score -= 0.01
		}
	}

	groups := a.Aggregate(frags, nil)

	total := 0
	for _, g := range groups {
		if len(g.Visible) > 2 {
			t.Errorf("group %s shows %d, want at most 2 per group", g.Key, len(g.Visible))
		}
		if len(g.Items) != 3 {
			t.Errorf("group %s Items = %d, want full 3 for show-more affordance", g.Key, len(g.Items))
		}
		total += len(g.Visible)
	}
	if total > 4 {
		t.Errorf("total visible = %d, want at most 4", total)
	}
	// Greedy allocation: 2 + 2, third group fully cut and omitted.
	if len(groups) != 2 {
		t.Errorf("got %d groups, want 2 (empty-visible group omitted)", len(groups))
	}
}

func TestAggregate_ExpandedGroupConsumesQuota(t *testing.T) {
	a := New(testConfig())

	var frags []models.Fragment
	score := 0.69
	for n := int64(1); n <= 2; n++ {
		for i := 0; i < 3; i++ {
			frags = append(frags, frag(fmt.Sprintf("n%d-%d", n, i), n, fmt.Sprintf("Art. %d", i), score))
			score -= 0.01
		}
	}

	groups := a.Aggregate(frags, map[string]bool{"1": true})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !groups[0].Expanded || len(groups[0].Visible) != 3 {
		t.Errorf("expanded group shows %d, want all 3", len(groups[0].Visible))
	}
	// 3 of the 4-slot quota consumed; one slot remains for group 2.
	if len(groups[1].Visible) != 1 {
		t.Errorf("second group shows %d, want 1 remaining slot", len(groups[1].Visible))
	}
}

func TestAggregate_HighConfidenceSingleGroup(t *testing.T) {
	a := New(testConfig())

	var frags []models.Fragment
	frags = append(frags, frag("top", 5, "Art. 1", 0.82))
	for i := 1; i < 5; i++ {
		frags = append(frags, frag(fmt.Sprintf("d%d", i), 5, fmt.Sprintf("Art. %d", i+1), 0.60))
	}
	frags = append(frags, frag("other1", 6, "Art. 1", 0.59))
	frags = append(frags, frag("other2", 7, "Art. 1", 0.58))

	groups := a.Aggregate(frags, nil)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want only the top fragment's norma", len(groups))
	}
	if groups[0].Key != "5" {
		t.Errorf("group key = %q, want 5", groups[0].Key)
	}
	if len(groups[0].Visible) != 2 {
		t.Errorf("visible = %d, want best 2 by default", len(groups[0].Visible))
	}
	if groups[0].Visible[0].ID != "top" {
		t.Error("top fragment must lead the visible set")
	}
	if len(groups[0].Items) != 5 {
		t.Errorf("Items = %d, want all 5 fragments of the norma", len(groups[0].Items))
	}
}

func TestAggregate_HighConfidenceExpanded(t *testing.T) {
	a := New(testConfig())

	var frags []models.Fragment
	frags = append(frags, frag("top", 5, "Art. 1", 0.82))
	for i := 1; i < 5; i++ {
		frags = append(frags, frag(fmt.Sprintf("d%d", i), 5, fmt.Sprintf("Art. %d", i+1), 0.60))
	}

	groups := a.Aggregate(frags, map[string]bool{"5": true})

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !groups[0].Expanded {
		t.Error("group should carry the expanded flag")
	}
	if len(groups[0].Visible) != 5 {
		t.Errorf("visible = %d, want all 5 when expanded", len(groups[0].Visible))
	}
}

func TestAggregate_Empty(t *testing.T) {
	a := New(testConfig())

	if groups := a.Aggregate(nil, nil); groups != nil {
		t.Errorf("Aggregate(nil) = %v, want nil", groups)
	}
}
