package catalog

import "testing"

func TestTotalPages(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 6: 1, 7: 2, 12: 2, 13: 3}
	for n, want := range tests {
		if got := TotalPages(n); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestRenderIsPure(t *testing.T) {
	st := State{
		All:      []Project{{ID: "a", Description: "A."}, {ID: "b"}},
		Filtered: []Project{{ID: "a", Description: "A."}, {ID: "b"}},
		Page:     1,
		Loaded:   true,
	}
	first := Render(st)
	second := Render(st)
	if len(first.Cards) != 2 || len(second.Cards) != 2 {
		t.Fatalf("cards = %d/%d", len(first.Cards), len(second.Cards))
	}
	if first.Cards[0].Title != "A" || first.Cards[1].Title != DefaultTitle {
		t.Fatalf("titles = %q %q", first.Cards[0].Title, first.Cards[1].Title)
	}
	if first.Detail != nil {
		t.Fatal("no selection should render the placeholder")
	}
}

func TestRenderLoadingWinsOverError(t *testing.T) {
	v := Render(State{Loading: true, Err: LoadErrorMessage})
	if v.Status != StatusLoading || v.Message != LoadingMessage {
		t.Fatalf("view = %+v", v)
	}
}

func TestSearchIndexDedup(t *testing.T) {
	ix := BuildSearchIndex([]Project{
		{Description: " Tool. ", Titles: []string{"Tool", "", " Guide "}},
		{Description: "Guide", Titles: []string{"tool"}},
		{Description: " Kit."},
	})
	want := []string{"Tool.", "Tool", "Guide", "tool", "Kit"}
	got := ix.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}
