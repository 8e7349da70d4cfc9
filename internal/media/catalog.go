package media

import (
	"errors"
	"strings"
)

var ErrClipNotFound = errors.New("clip not found")

// Catalog is the read-only set of browsable clips, grouped by tab.
type Catalog struct {
	tabs  []string
	items map[string][]Clip
}

func NewCatalog(tabs map[string][]Clip, order ...string) *Catalog {
	c := &Catalog{items: make(map[string][]Clip, len(tabs))}
	for _, tab := range order {
		if _, ok := tabs[tab]; ok {
			c.tabs = append(c.tabs, tab)
		}
	}
	for tab, clips := range tabs {
		if !contains(c.tabs, tab) {
			c.tabs = append(c.tabs, tab)
		}
		c.items[tab] = append([]Clip(nil), clips...)
	}
	return c
}

// DefaultCatalog returns the mock media browser content.
func DefaultCatalog() *Catalog {
	uploaded := func(prefix, source string) []Clip {
		return []Clip{
			{ID: prefix + "-1", Title: "SilkeVod", Subtitle: "Uploaded: 186 days ago", Duration: "05:02", Source: source},
			{ID: prefix + "-2", Title: "Matrix Scene", Subtitle: "Uploaded: 92 days ago", Duration: "03:45", Source: source},
		}
	}

	return NewCatalog(map[string][]Clip{
		SourceLibrary: uploaded("library", SourceLibrary),
		SourceUploads: uploaded("uploads", SourceUploads),
		SourceSilke: {
			{ID: "silke-1", Title: "SilkeVod", Subtitle: "Slike ID: 1xv3dgq9z9", Duration: "05:02", Source: SourceSilke, SlikeID: "1xv3dgq9z9"},
			{ID: "silke-2", Title: "Matrix Scene", Subtitle: "Slike ID: 2bw8kx7p4m", Duration: "03:45", Source: SourceSilke, SlikeID: "2bw8kx7p4m"},
		},
	}, SourceLibrary, SourceSilke, SourceUploads)
}

func (c *Catalog) Tabs() []string {
	return append([]string(nil), c.tabs...)
}

// Search returns clips on tab whose title or Slike ID contains query,
// case-insensitively. An empty query returns the whole tab. ok is false for
// an unknown tab.
func (c *Catalog) Search(tab, query string) (clips []Clip, ok bool) {
	items, ok := c.items[c.tabName(tab)]
	if !ok {
		return nil, false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Clip, 0, len(items))
	for _, clip := range items {
		if q == "" ||
			strings.Contains(strings.ToLower(clip.Title), q) ||
			(clip.SlikeID != "" && strings.Contains(strings.ToLower(clip.SlikeID), q)) {
			out = append(out, clip)
		}
	}
	return out, true
}

// Find looks up a clip by id on a tab.
func (c *Catalog) Find(tab, id string) (Clip, bool) {
	for _, clip := range c.items[c.tabName(tab)] {
		if clip.ID == id {
			return clip, true
		}
	}
	return Clip{}, false
}

// tabName resolves tab case-insensitively.
func (c *Catalog) tabName(tab string) string {
	for _, t := range c.tabs {
		if strings.EqualFold(t, tab) {
			return t
		}
	}
	return tab
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
