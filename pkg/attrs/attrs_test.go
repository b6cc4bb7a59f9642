package attrs

import (
	"testing"
	"time"
)

func TestUpdateAndGetAttribute(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Add("N50F3024520024939", 8, [4]float64{114, 22, 115, 23}, [2]float64{114.5, 22.5}, [2]float64{0, 1000}, now)

	if err := s.UpdateAttribute("N50F3024520024939", CategoryFlightRules, "vfr_allowed", true, now); err != nil {
		t.Fatalf("UpdateAttribute: %v", err)
	}

	got, ok := s.GetAttribute("N50F3024520024939", CategoryFlightRules, "vfr_allowed")
	if !ok {
		t.Fatal("expected attribute to be set")
	}
	if got != true {
		t.Errorf("got %v, want true", got)
	}

	if _, ok := s.GetAttribute("N50F3024520024939", CategoryFlightRules, "never_set"); ok {
		t.Error("expected ok=false for an unset key")
	}
}

func TestUpdateAttributeRejectsUnknownCategory(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Add("code1", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)

	err := s.UpdateAttribute("code1", "not_a_category", "k", "v", now)
	if err == nil {
		t.Fatal("expected error for invalid category")
	}
	var ce *ErrInvalidCategory
	if !asErrInvalidCategory(err, &ce) {
		t.Errorf("expected *ErrInvalidCategory, got %T: %v", err, err)
	}
}

func TestUpdateAttributeRejectsUnknownCode(t *testing.T) {
	s := NewStore()
	err := s.UpdateAttribute("missing", CategoryFlightRules, "k", "v", time.Now())
	if err == nil {
		t.Fatal("expected error for unknown grid code")
	}
}

func TestUpdateAttributeBumpsLastUpdated(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	s.Add("code1", 1, [4]float64{}, [2]float64{}, [2]float64{}, t0)

	if err := s.UpdateAttribute("code1", CategoryAirspaceStatus, "status", "closed", t1); err != nil {
		t.Fatalf("UpdateAttribute: %v", err)
	}
	rec, ok := s.Get("code1")
	if !ok {
		t.Fatal("expected record to exist")
	}
	if !rec.LastUpdated.Equal(t1) {
		t.Errorf("LastUpdated = %v, want %v", rec.LastUpdated, t1)
	}
	if !rec.CreatedTime.Equal(t0) {
		t.Errorf("CreatedTime should not change: got %v, want %v", rec.CreatedTime, t0)
	}
}

func TestSearchByCategoryValue(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Add("a", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)
	s.Add("b", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)
	s.Add("c", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)

	must(t, s.UpdateAttribute("a", CategoryRiskAssessment, "level", "high", now))
	must(t, s.UpdateAttribute("b", CategoryRiskAssessment, "level", "low", now))
	must(t, s.UpdateAttribute("c", CategoryRiskAssessment, "level", "high", now))

	matches := s.SearchByCategoryValue(CategoryRiskAssessment, "level", "high")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	codes := map[string]bool{}
	for _, m := range matches {
		codes[m.GridCode] = true
	}
	if !codes["a"] || !codes["c"] {
		t.Errorf("expected matches for a and c, got %v", codes)
	}
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Add("code1", 5, [4]float64{1, 2, 3, 4}, [2]float64{2, 3}, [2]float64{0, 500}, now)
	must(t, s.UpdateAttribute("code1", CategoryControlAuthority, "sector", "ZGGG", now))
	must(t, s.UpdateAttribute("code1", CategoryDynamicUpdates, "notam", "none", now))

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	restored := NewStore()
	if err := restored.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	rec, ok := restored.Get("code1")
	if !ok {
		t.Fatal("expected code1 to survive round trip")
	}
	if rec.Level != 5 || rec.BBox != [4]float64{1, 2, 3, 4} {
		t.Errorf("geometry did not survive round trip: %+v", rec)
	}
	if rec.ControlAuthority["sector"] != "ZGGG" {
		t.Errorf("ControlAuthority[sector] = %v, want ZGGG", rec.ControlAuthority["sector"])
	}
}

func TestImportJSONReplacesNotMerges(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Add("old", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)

	other := NewStore()
	other.Add("new", 1, [4]float64{}, [2]float64{}, [2]float64{}, now)
	data, err := other.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	if err := s.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if _, ok := s.Get("old"); ok {
		t.Error("expected ImportJSON to replace the store, but old code survived")
	}
	if _, ok := s.Get("new"); !ok {
		t.Error("expected new code to be present after import")
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Add("code1", 1, [4]float64{}, [2]float64{}, [2]float64{}, time.Now())

	if !s.Remove("code1") {
		t.Error("expected Remove to report true for an existing code")
	}
	if s.Remove("code1") {
		t.Error("expected Remove to report false on a second call")
	}
	if _, ok := s.Get("code1"); ok {
		t.Error("expected code1 to be gone after Remove")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func asErrInvalidCategory(err error, target **ErrInvalidCategory) bool {
	if e, ok := err.(*ErrInvalidCategory); ok {
		*target = e
		return true
	}
	return false
}
