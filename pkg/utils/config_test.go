package utils

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	got := SplitList(" MST, 761,,762 ,")
	want := []string{"MST", "761", "762"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := SplitList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestParseResources(t *testing.T) {
	got, err := ParseResources("big:Big Vehicle, small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ResourceConfig{{Key: "big", Name: "Big Vehicle"}, {Key: "small", Name: "small"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseResources_Invalid(t *testing.T) {
	for _, value := range []string{"", "big:A,big:B", ":Nameless"} {
		if _, err := ParseResources(value); err == nil {
			t.Errorf("expected error for %q", value)
		}
	}
}

func TestNormalizeSignage(t *testing.T) {
	if got := NormalizeSignage("  mst "); got != "MST" {
		t.Fatalf("expected MST, got %q", got)
	}
}
