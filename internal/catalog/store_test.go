package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"folio/internal/task"

	"github.com/rs/zerolog"
)

type fakeSource struct {
	mu    sync.Mutex
	rows  []RawRow
	err   error
	calls int
	block chan struct{}
}

func (f *fakeSource) FetchProjects(ctx context.Context) ([]RawRow, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.rows, f.err
}

func rowsJSON(t *testing.T, raw string) []RawRow {
	t.Helper()
	rows, err := ParseRows([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	return rows
}

func numberedRows(t *testing.T, n int) []RawRow {
	t.Helper()
	raw := "["
	for i := 1; i <= n; i++ {
		if i > 1 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"id": %d, "description": "Project %d.", "titles": ["Download %d"]}`, i, i, i)
	}
	return rowsJSON(t, raw+"]")
}

func loadedStore(t *testing.T, rows []RawRow) *Store {
	t.Helper()
	s := NewStore(&fakeSource{rows: rows}, zerolog.Nop())
	if got := s.Load(context.Background()); got != task.Succeeded {
		t.Fatalf("Load = %v", got)
	}
	return s
}

func ids(projects []Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestLoadInstallsCatalog(t *testing.T) {
	src := &fakeSource{rows: numberedRows(t, 3)}
	s := NewStore(src, zerolog.Nop())
	if v := s.View(); v.Status != StatusIdle || !v.Loading() {
		t.Fatalf("initial view status = %v", v.Status)
	}

	if got := s.Load(context.Background()); got != task.Succeeded {
		t.Fatalf("Load = %v", got)
	}
	if !s.Loaded() || s.Loading() {
		t.Fatal("flags not updated after success")
	}
	if got := ids(s.Projects()); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("projects = %v", got)
	}
	if got := s.Load(context.Background()); got != task.AlreadyDone {
		t.Fatalf("second Load = %v", got)
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times", src.calls)
	}
}

func TestLoadFailureAllowsRetry(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	s := NewStore(src, zerolog.Nop())
	if got := s.Load(context.Background()); got != task.Failed {
		t.Fatalf("Load = %v", got)
	}
	v := s.View()
	if v.Status != StatusFailed || v.Message != LoadErrorMessage {
		t.Fatalf("view after failure = %+v", v)
	}
	if s.Loaded() || s.Loading() {
		t.Fatal("failure must leave loaded=false and loading=false")
	}

	src.err = nil
	src.rows = numberedRows(t, 2)
	if got := s.Load(context.Background()); got != task.Succeeded {
		t.Fatalf("retry Load = %v", got)
	}
	if v := s.View(); v.Status != StatusReady || len(v.Cards) != 2 {
		t.Fatalf("view after retry = %+v", v)
	}
}

func TestLoadWithoutSource(t *testing.T) {
	s := NewStore(nil, zerolog.Nop())
	if got := s.Load(context.Background()); got != task.Failed {
		t.Fatalf("Load = %v", got)
	}
	if v := s.View(); v.Message != NotConfiguredMessage {
		t.Fatalf("message = %q", v.Message)
	}
}

func TestLoadInProgress(t *testing.T) {
	src := &fakeSource{rows: numberedRows(t, 1), block: make(chan struct{})}
	s := NewStore(src, zerolog.Nop())

	done := make(chan task.Outcome)
	go func() { done <- s.Load(context.Background()) }()

	for !s.Loading() {
	}
	if v := s.View(); v.Status != StatusLoading {
		t.Fatalf("status during load = %v", v.Status)
	}
	if got := s.Load(context.Background()); got != task.InProgress {
		t.Fatalf("concurrent Load = %v", got)
	}
	close(src.block)
	if got := <-done; got != task.Succeeded {
		t.Fatalf("first Load = %v", got)
	}
}

func TestFilterIdempotentAndRestores(t *testing.T) {
	s := loadedStore(t, rowsJSON(t, `[
		{"id": 1, "description": "Alpha tool"},
		{"id": 2, "description": "Beta", "titles": ["Alpha manual"]},
		{"id": 3, "description": "Gamma"}
	]`))

	s.Filter("ALPHA ")
	once := ids(s.Filtered())
	s.Filter("ALPHA ")
	twice := ids(s.Filtered())
	if !reflect.DeepEqual(once, []string{"1", "2"}) || !reflect.DeepEqual(once, twice) {
		t.Fatalf("filtered once=%v twice=%v", once, twice)
	}

	s.Filter("")
	if got := ids(s.Filtered()); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("restored = %v", got)
	}
}

func TestFilterResetsPageAndSelection(t *testing.T) {
	s := loadedStore(t, numberedRows(t, 13))
	s.SetPage(3)
	s.Select("13")
	s.Filter("project")
	if v := s.View(); v.Page != 1 || v.Detail != nil {
		t.Fatalf("page=%d detail=%v", v.Page, v.Detail)
	}
	if s.SelectedID() != "" {
		t.Fatal("selection survived filter")
	}
}

func TestPagination(t *testing.T) {
	s := loadedStore(t, numberedRows(t, 13))
	v := s.View()
	if v.TotalPages != 3 || len(v.Pages) != 3 {
		t.Fatalf("pages = %d/%d", v.TotalPages, len(v.Pages))
	}
	if got := s.SetPage(3); got != 3 {
		t.Fatalf("SetPage(3) = %d", got)
	}
	v = s.View()
	if len(v.Cards) != 1 || v.Cards[0].ID != "13" {
		t.Fatalf("page 3 cards = %+v", v.Cards)
	}
	if !v.Pages[2].Active || v.Pages[0].Active {
		t.Fatalf("active marker = %+v", v.Pages)
	}
	if got := s.SetPage(99); got != 3 {
		t.Fatalf("SetPage(99) = %d", got)
	}
	if got := s.SetPage(-1); got != 1 {
		t.Fatalf("SetPage(-1) = %d", got)
	}
}

func TestSetPageKeepsSelection(t *testing.T) {
	s := loadedStore(t, numberedRows(t, 13))
	s.Select("2")
	s.SetPage(2)
	v := s.View()
	if v.Detail == nil || v.Detail.ID != "2" {
		t.Fatalf("detail after page change = %+v", v.Detail)
	}
	for _, c := range v.Cards {
		if c.Selected {
			t.Fatalf("card %s marked selected on another page", c.ID)
		}
	}
}

func TestSelectIgnoresFilter(t *testing.T) {
	s := loadedStore(t, rowsJSON(t, `[
		{"id": 1, "description": "Visible"},
		{"id": 2, "description": "Hidden one.", "password": "pw", "links": ["https://x"], "alternatives": "a|b"}
	]`))
	s.Filter("visible")
	if !s.Select("2") {
		t.Fatal("Select of filtered-out project failed")
	}
	v := s.View()
	if v.Detail == nil || v.Detail.Title != "Hidden one" || v.Detail.Password != "pw" {
		t.Fatalf("detail = %+v", v.Detail)
	}
	if len(v.Detail.Links) != 1 || v.Detail.Links[0].Label != "Link 1" {
		t.Fatalf("links = %+v", v.Detail.Links)
	}
	if len(v.Cards) != 1 || v.Cards[0].Selected {
		t.Fatalf("cards = %+v", v.Cards)
	}
}

func TestSelectUnknownAndClear(t *testing.T) {
	s := loadedStore(t, numberedRows(t, 2))
	if s.Select("nope") {
		t.Fatal("unknown id selected")
	}
	s.Select("1")
	if v := s.View(); !v.Cards[0].Selected || v.Cards[1].Selected {
		t.Fatalf("highlight = %+v", v.Cards)
	}
	s.Clear()
	if v := s.View(); v.Detail != nil || v.Cards[0].Selected {
		t.Fatal("Clear did not reset selection")
	}
}

func TestNoResults(t *testing.T) {
	s := loadedStore(t, numberedRows(t, 4))
	s.Filter("zzz")
	v := s.View()
	if !v.NoResults || len(v.Cards) != 0 {
		t.Fatalf("view = %+v", v)
	}
	if len(v.Pages) != 1 || !v.Pages[0].Active {
		t.Fatalf("pages = %+v", v.Pages)
	}
}

func TestFilterSuggestions(t *testing.T) {
	s := loadedStore(t, rowsJSON(t, `[
		{"id": 1, "description": "Alpha.", "titles": ["Alpha", "Manual", "Data"]},
		{"id": 2, "description": "Banana", "titles": ["Data", "Panda"]},
		{"id": 3, "description": "Cat", "titles": ["Tapas", "Java", "Lava"]}
	]`))
	got := s.Filter("a")
	if len(got) > MaxSuggestions {
		t.Fatalf("%d suggestions", len(got))
	}
	seen := map[string]bool{}
	for _, sg := range got {
		if seen[sg] {
			t.Fatalf("duplicate suggestion %q in %v", sg, got)
		}
		seen[sg] = true
	}
	want := []string{"Alpha", "Manual", "Data", "Banana", "Panda"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
	if got := s.Filter(""); len(got) != 0 {
		t.Fatalf("empty term suggestions = %v", got)
	}
}
