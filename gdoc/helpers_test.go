package gdoc

import (
	"os"
	"testing"
)

const sampleJSON = "../testdata/sample.json"

func loadSample(t *testing.T) *Document {
	t.Helper()

	f, err := os.Open(sampleJSON)
	if err != nil {
		t.Fatalf("open sample file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	doc, err := Decode(f)
	if err != nil {
		t.Fatalf("decode sample file: %v", err)
	}
	return doc
}

func ptr[T any](v T) *T {
	return &v
}

func pt(v float64) *Dimension {
	return &Dimension{Magnitude: &v, Unit: UnitPt}
}
