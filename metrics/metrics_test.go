package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSnapshot(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	m.Reserves(1000, 1000)
	m.Committed(1)
	m.Swapped(91, 1100, 909, 0)
	m.Mismatch()
	m.LiquidityFailure(0)

	s, err := m.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]float64{
		"amm_commits":               1,
		"amm_swaps":                 1,
		"amm_withdraws":             0,
		"amm_commitment_mismatches": 1,
		"amm_liquidity_failures":    1,
		"amm_output_total":          91,
		"amm_reserve_base":          1100,
		"amm_reserve_quote":         909,
		"amm_pending_commitments":   0,
	}
	for name, want := range expected {
		if got, ok := s[name]; !ok || got != want {
			t.Fatalf("%s: expected %v, got %v (present %v)", name, want, got, ok)
		}
	}

	m.Withdrawn()
	s, err = m.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s["amm_reserve_base"] != 0 || s["amm_withdraws"] != 1 {
		t.Fatalf("withdraw not recorded: %v", s)
	}
}

func TestHandler(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	m.Committed(1)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "amm_commits 1") {
		t.Fatalf("exposition does not contain the commit counter:\n%s", body)
	}
}

func TestGathererListsEveryCollector(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		if f.GetHelp() == "" {
			t.Fatalf("%s has no help text", f.GetName())
		}
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"amm_commits",
		"amm_swaps",
		"amm_withdraws",
		"amm_commitment_mismatches",
		"amm_liquidity_failures",
		"amm_output_total",
		"amm_reserve_base",
		"amm_reserve_quote",
		"amm_pending_commitments",
	} {
		if !names[name] {
			t.Fatalf("%s is not registered", name)
		}
	}
	if len(families) != 9 {
		t.Fatalf("expected 9 families, got %d", len(families))
	}
}
