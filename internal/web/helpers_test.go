package web

import (
	"net/url"
	"testing"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantNil      bool
		wantPartial  bool
		wantYears    []int
		wantCounties []string
		wantErr      bool
	}{
		{name: "no filter", query: "", wantNil: true},
		{name: "submitted empty", query: "filtered=1"},
		{name: "years and counties", query: "year=2021&year=2023&county=KENT", wantPartial: true, wantYears: []int{2021, 2023}, wantCounties: []string{"KENT"}},
		{name: "year only", query: "year=2020", wantPartial: true, wantYears: []int{2020}},
		{name: "county only", query: "county=KENT", wantPartial: true, wantCounties: []string{"KENT"}},
		{name: "submitted year only", query: "filtered=1&year=2020", wantYears: []int{2020}},
		{name: "blank county dropped", query: "filtered=1&county=+", wantCounties: nil},
		{name: "bad year", query: "year=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			sel, partial, err := parseSelection(q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if partial != tt.wantPartial {
				t.Errorf("partial = %v, want %v", partial, tt.wantPartial)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if sel != nil {
					t.Errorf("expected nil selection, got %+v", sel)
				}
				return
			}
			if sel == nil {
				t.Fatal("expected a selection")
			}
			if len(sel.Years) != len(tt.wantYears) || len(sel.Counties) != len(tt.wantCounties) {
				t.Fatalf("unexpected selection %+v", sel)
			}
			for i := range tt.wantYears {
				if sel.Years[i] != tt.wantYears[i] {
					t.Errorf("year %d: expected %d, got %d", i, tt.wantYears[i], sel.Years[i])
				}
			}
			for i := range tt.wantCounties {
				if sel.Counties[i] != tt.wantCounties[i] {
					t.Errorf("county %d: expected %q, got %q", i, tt.wantCounties[i], sel.Counties[i])
				}
			}
		})
	}
}

func TestHistoryLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"limit=3", 3},
		{"limit=0", 10},
		{"limit=x", 10},
		{"limit=5000", 100},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := historyLimit(q, 10); got != tt.want {
			t.Errorf("historyLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
