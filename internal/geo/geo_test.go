// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geo

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"nothing recognized", "Department of Biostatistics", ""},
		{
			"city and country",
			"Harvard Medical School, Boston, MA 02115, USA.",
			"Boston, United States",
		},
		{
			"city without country",
			"Broad Institute, Cambridge, Massachusetts.",
			"Cambridge, ",
		},
		{
			"country only",
			"National Institute of Health Research, United Kingdom",
			", United Kingdom",
		},
		{
			"multi-word city",
			"Universidade de Sao Paulo, Sao Paulo, Brazil",
			"Sao Paulo, Brazil",
		},
		{
			"first country wins",
			"Wellcome Centre, Oxford, UK and NIH, Bethesda, USA",
			"Oxford Bethesda, United Kingdom",
		},
		{
			"university token not a city",
			"University Hospital, Geneva, Switzerland",
			"Geneva, Switzerland",
		},
		{
			"lowercase words are not cities",
			"a nice bath house",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.input); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveDeduplicatesCities(t *testing.T) {
	got := Resolve("MGH, Boston; BWH, Boston; Harvard, Boston, USA")
	if strings.Count(got, "Boston") != 1 {
		t.Errorf("Resolve should deduplicate repeated cities, got %q", got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	in := "Karolinska Institutet, Stockholm, Sweden; Uppsala University, Uppsala, Sweden"
	first := Resolve(in)
	for i := 0; i < 10; i++ {
		if got := Resolve(in); got != first {
			t.Fatalf("Resolve not deterministic: %q vs %q", got, first)
		}
	}
}
