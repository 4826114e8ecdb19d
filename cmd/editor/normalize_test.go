package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"plan-editor/internal/editor/models"
)

const samplePlan = `{
  "name": "corridor",
  "scale": 1,
  "segments": [
    {"id": "a", "kind": "wall", "x1": 0, "y1": 0, "x2": 100, "y2": 0, "width": 10, "height": 300, "color": "#333333"},
    {"id": "b", "kind": "wall", "x1": 102, "y1": 0, "x2": 200, "y2": 0, "width": 10, "height": 300, "color": "#333333"}
  ]
}`

func TestNormalizePlanMergesWalls(t *testing.T) {
	plan, err := normalizePlan(strings.NewReader(samplePlan), io.Discard, 0)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if plan.Name != "corridor" || len(plan.Segments) != 1 {
		t.Fatalf("expected one merged wall, got %+v", plan)
	}
	if s := plan.Segments[0]; s.X1 != 0 || s.X2 != 200 {
		t.Errorf("unexpected span %+v", s)
	}
}

func TestNormalizePlanRejectsUnknownKind(t *testing.T) {
	_, err := normalizePlan(strings.NewReader(`{"segments": [{"id": "x", "kind": "column"}]}`), io.Discard, 0)
	if err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestNormalizeCommandReadsStdin(t *testing.T) {
	var out, progress bytes.Buffer
	rootCmd.SetIn(strings.NewReader(samplePlan))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&progress)
	rootCmd.SetArgs([]string{"normalize", "--scale", "2"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var plan models.Plan
	if err := json.Unmarshal(out.Bytes(), &plan); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if plan.Scale != 2 || len(plan.Segments) != 1 {
		t.Errorf("unexpected output %+v", plan)
	}
	if got := progress.String(); got != "normalize: 2 segment(s) in, 1 out\n" {
		t.Errorf("unexpected progress line %q", got)
	}
}
