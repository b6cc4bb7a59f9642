package conflict

import (
	"context"
	"testing"
)

func TestDetectEmptyInputs(t *testing.T) {
	tensor := BuildTensor(nil, nil, 10)
	result, err := Detect(context.Background(), tensor, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(result.Triples) != 0 {
		t.Errorf("expected no triples, got %d", len(result.Triples))
	}

	existingOnly := BuildTensor([]Route{{{TimeSeconds: 0, Lon: 1, Lat: 1, Alt: 0}}}, nil, 10)
	result, err = Detect(context.Background(), existingOnly, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(result.Triples) != 0 {
		t.Errorf("existing-only: expected no triples, got %d", len(result.Triples))
	}
}

func TestDetectFindsConflictAtT100(t *testing.T) {
	existing := []Route{
		{{TimeSeconds: 100, Lon: 10.0, Lat: 20.0, Alt: 0}},
	}
	newRoutes := []Route{
		{{TimeSeconds: 100, Lon: 10.0001, Lat: 20.0, Alt: 0}},
	}
	tensor := BuildTensor(existing, newRoutes, 200)

	result, err := Detect(context.Background(), tensor, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(result.Triples) != 1 {
		t.Fatalf("expected 1 triple, got %d: %+v", len(result.Triples), result.Triples)
	}
	got := result.Triples[0]
	if got.T != 100 || got.J != 0 || got.I != 1 {
		t.Errorf("triple = %+v, want {T:100 J:0 I:1}", got)
	}
	if !result.ConflictTimes[100] {
		t.Errorf("ConflictTimes[100] = false, want true")
	}
}

func TestDetectThresholdMonotonicity(t *testing.T) {
	existing := []Route{{{TimeSeconds: 50, Lon: 0, Lat: 0, Alt: 0}}}
	newRoutes := []Route{{{TimeSeconds: 50, Lon: 0.01, Lat: 0, Alt: 0}}}
	tensor := BuildTensor(existing, newRoutes, 100)

	tight, err := Detect(context.Background(), tensor, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(tight.Triples) != 0 {
		t.Errorf("tight epsilon: expected no conflict, got %+v", tight.Triples)
	}

	loose, err := Detect(context.Background(), tensor, 0.1, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(loose.Triples) != 1 {
		t.Errorf("loose epsilon: expected 1 conflict, got %d", len(loose.Triples))
	}
}

// Swapping the order of the existing routes must not change which pairs
// of routes are reported as conflicting — only the J index each
// conflicting pair carries should track the swap.
func TestDetectSymmetryUnderRouteRenaming(t *testing.T) {
	decoy := Route{{TimeSeconds: 10, Lon: 99, Lat: 99, Alt: 0}}
	conflicting := Route{{TimeSeconds: 10, Lon: 5, Lat: 5, Alt: 0}}
	newRoute := Route{{TimeSeconds: 10, Lon: 5.0001, Lat: 5, Alt: 0}}

	order1 := BuildTensor([]Route{decoy, conflicting}, []Route{newRoute}, 20)
	order2 := BuildTensor([]Route{conflicting, decoy}, []Route{newRoute}, 20)

	r1, err := Detect(context.Background(), order1, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect order1: %v", err)
	}
	r2, err := Detect(context.Background(), order2, 0.001, Options{})
	if err != nil {
		t.Fatalf("Detect order2: %v", err)
	}

	if len(r1.Triples) != 1 || len(r2.Triples) != 1 {
		t.Fatalf("expected exactly one conflict in each ordering, got %d and %d", len(r1.Triples), len(r2.Triples))
	}
	if r1.Triples[0].J != 1 {
		t.Errorf("order1: conflicting route should be J=1 (decoy first), got J=%d", r1.Triples[0].J)
	}
	if r2.Triples[0].J != 0 {
		t.Errorf("order2: conflicting route should be J=0 (conflicting first), got J=%d", r2.Triples[0].J)
	}
}

func TestDetectRespectsContextCancellation(t *testing.T) {
	existing := make([]Route, 1)
	existing[0] = Route{{TimeSeconds: 0, Lon: 0, Lat: 0, Alt: 0}}
	newRoutes := []Route{{{TimeSeconds: 0, Lon: 0, Lat: 0, Alt: 0}}}
	tensor := BuildTensor(existing, newRoutes, 100000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Detect(ctx, tensor, 0.001, Options{TileSize: 1})
	if err == nil {
		t.Fatal("expected context error")
	}
}
