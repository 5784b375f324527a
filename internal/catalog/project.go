// internal/catalog/project.go

// Package catalog holds the project catalog of a session: normalization of
// backend rows, filtering, pagination, selection and the view model the
// templates render.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Project is the canonical shape of a catalog row after normalization.
type Project struct {
	ID           string
	Description  string
	Titles       []string
	Links        []string
	Img          string
	Password     string
	Additional   string
	Alternatives []string
	CreatedAt    time.Time
}

// FallbackID is the id of a row carrying no id, image or description.
const FallbackID = "project-without-id"

// DefaultTitle is shown for projects with an empty description.
const DefaultTitle = "Project"

// Link is a labeled download or reference button of the detail pane.
type Link struct {
	Label string
	URL   string
}

// DisplayTitle strips a single trailing period from a description.
func DisplayTitle(description string) string {
	if description == "" {
		return DefaultTitle
	}
	return strings.TrimSuffix(description, ".")
}

// Title is the project's display title.
func (p Project) Title() string {
	return DisplayTitle(p.Description)
}

// LinkPairs pairs every link with its index-aligned title, generating a
// "Link N" label when the title is missing.
func (p Project) LinkPairs() []Link {
	out := make([]Link, 0, len(p.Links))
	for i, href := range p.Links {
		label := ""
		if i < len(p.Titles) {
			label = strings.TrimSpace(p.Titles[i])
		}
		if label == "" {
			label = fmt.Sprintf("Link %d", i+1)
		}
		out = append(out, Link{Label: label, URL: href})
	}
	return out
}
