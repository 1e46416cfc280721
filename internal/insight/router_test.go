package insight

import (
	"context"
	"strings"
	"testing"
)

func TestRouterHelpShortCircuits(t *testing.T) {
	e := newTestEngine(nil)
	reply := e.AnswerQuestion(context.Background(), "help")
	if !strings.Contains(reply, "low stock") {
		t.Errorf("expected command list, got %q", reply)
	}
}

func TestRouterEntityMentionBeatsHeavierRules(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {{"slid": "SL-1"}, {"slid": "SL-2"}},
	})
	// mentions "slab", so the entity rule must answer even though
	// "slow" would otherwise match the slow-moving rule
	reply := e.AnswerQuestion(context.Background(), "slow moving slabs?")
	if !strings.Contains(reply, "2") {
		t.Errorf("expected slab count reply, got %q", reply)
	}
}

func TestRouterLowStock(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-LOW", "material": "granite", "thickness_cm": "2", "finish": "polished",
				"quantity": 1.0, "min_qty": 5.0},
		},
	})
	reply := e.AnswerQuestion(context.Background(), "what is running low?")
	if !strings.Contains(reply, "granite") {
		t.Errorf("expected low-stock reply naming the group, got %q", reply)
	}
}

func TestRouterForecastExtractsIdentifier(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"dispatches": {
			{"slid": "SL-77", "quantity": 90.0, "dispatched_at": daysAgo(10)},
		},
	})
	reply := e.AnswerQuestion(context.Background(), "forecast demand for sl-77 please")
	if !strings.Contains(reply, "sl-77") {
		t.Errorf("expected forecast reply for sl-77, got %q", reply)
	}
	if !strings.Contains(reply, "30") {
		t.Errorf("expected predicted quantity 30 in reply, got %q", reply)
	}
}

func TestRouterForecastWithoutIdentifier(t *testing.T) {
	e := newTestEngine(nil)
	reply := e.AnswerQuestion(context.Background(), "forecast please")
	if !strings.Contains(reply, "编号") {
		t.Errorf("expected prompt for an identifier, got %q", reply)
	}
}

func TestRouterVisibilityNeedsExplicitVocabulary(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {{"slid": "SL-1", "quantity": 4.0}},
	})
	reply := e.AnswerQuestion(context.Background(), "inventory summary")
	if !strings.Contains(reply, "4") {
		t.Errorf("expected visibility reply, got %q", reply)
	}
}

func TestRouterFallback(t *testing.T) {
	e := newTestEngine(nil)
	reply := e.AnswerQuestion(context.Background(), "what is the weather today")
	if reply != fallbackReply {
		t.Errorf("expected fixed fallback, got %q", reply)
	}
	if e.AnswerQuestion(context.Background(), "") != fallbackReply {
		t.Error("expected fallback for empty input")
	}
}
