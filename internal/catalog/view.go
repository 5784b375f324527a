// internal/catalog/view.go
package catalog

// PageSize is the number of cards per page.
const PageSize = 6

// Status is the state of the list region.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
	StatusReady
)

// User-facing messages of the list and detail regions.
const (
	LoadingMessage       = "Loading projects..."
	LoadErrorMessage     = "Could not load the projects."
	NotConfiguredMessage = "Configure the catalog backend to show the projects."
	NoResultsMessage     = "No projects found."
	PlaceholderMessage   = "Select a project to see its details."
	NoLinksMessage       = "No downloads available."
	NoAlternativesMsg    = "No alternatives listed."
)

// State is a snapshot of a store, the only input of Render.
type State struct {
	All         []Project
	Filtered    []Project
	Page        int
	SelectedID  string
	Loaded      bool
	Loading     bool
	Err         string
	Term        string
	Suggestions []string
}

// Card is one entry of the list region.
type Card struct {
	ID       string
	Img      string
	Title    string
	Selected bool
}

// PageLink is one pagination control.
type PageLink struct {
	Number int
	Active bool
}

// Detail is the content of the detail pane for the selected project.
type Detail struct {
	ID           string
	Title        string
	Img          string
	Password     string
	Additional   string
	Alternatives []string
	Links        []Link
}

// View is the declarative description of the catalog regions.
type View struct {
	Status      Status
	Message     string
	Cards       []Card
	NoResults   bool
	Pages       []PageLink
	Page        int
	TotalPages  int
	Total       int
	Term        string
	Suggestions []string
	Detail      *Detail
}

// Loading reports whether the list shows the loading placeholder.
func (v View) Loading() bool { return v.Status == StatusIdle || v.Status == StatusLoading }

// Failed reports whether the list shows the load error.
func (v View) Failed() bool { return v.Status == StatusFailed }

// TotalPages is ceil(n/PageSize), never less than one.
func TotalPages(n int) int {
	pages := (n + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageSlice returns the items of the 1-indexed page.
func PageSlice(items []Project, page int) []Project {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return nil
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Render derives the view from a state snapshot. It has no side effects.
func Render(st State) View {
	v := View{
		Term:        st.Term,
		Suggestions: st.Suggestions,
		Page:        st.Page,
	}
	if sel, ok := find(st.All, st.SelectedID); ok {
		v.Detail = detailOf(sel)
	}

	switch {
	case st.Loading:
		v.Status, v.Message = StatusLoading, LoadingMessage
		return v
	case !st.Loaded && st.Err != "":
		v.Status, v.Message = StatusFailed, st.Err
		return v
	case !st.Loaded:
		v.Status, v.Message = StatusIdle, LoadingMessage
		return v
	}

	v.Status = StatusReady
	v.Total = len(st.Filtered)
	v.TotalPages = TotalPages(len(st.Filtered))
	if v.Page < 1 {
		v.Page = 1
	}
	for n := 1; n <= v.TotalPages; n++ {
		v.Pages = append(v.Pages, PageLink{Number: n, Active: n == v.Page})
	}
	for _, p := range PageSlice(st.Filtered, v.Page) {
		v.Cards = append(v.Cards, Card{
			ID:       p.ID,
			Img:      p.Img,
			Title:    p.Title(),
			Selected: st.SelectedID != "" && p.ID == st.SelectedID,
		})
	}
	if len(v.Cards) == 0 {
		v.NoResults = true
		v.Message = NoResultsMessage
	}
	return v
}

func detailOf(p Project) *Detail {
	return &Detail{
		ID:           p.ID,
		Title:        p.Title(),
		Img:          p.Img,
		Password:     p.Password,
		Additional:   p.Additional,
		Alternatives: append([]string(nil), p.Alternatives...),
		Links:        p.LinkPairs(),
	}
}

func find(projects []Project, id string) (Project, bool) {
	if id == "" {
		return Project{}, false
	}
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
