package catalog

import (
	"fmt"
	"sync"

	"github.com/osse101/cosmetics/internal/domain"
)

// Catalog is the designer-authored list of avatar and frame definitions,
// indexed by id. The backing lists keep authoring order; the indices are
// rebuilt by BuildIndex with last-write-wins on duplicate ids.
type Catalog struct {
	avatars []domain.Definition
	frames  []domain.Definition

	mu    sync.RWMutex
	index map[domain.Category]map[domain.ItemID]domain.Definition
}

// New creates a catalog from the two ordered lists and builds its index
func New(avatars, frames []domain.Definition) *Catalog {
	c := &Catalog{
		avatars: append([]domain.Definition(nil), avatars...),
		frames:  append([]domain.Definition(nil), frames...),
	}
	c.BuildIndex()
	return c
}

// BuildIndex rebuilds the id→definition maps, skipping blank ids
func (c *Catalog) BuildIndex() {
	index := make(map[domain.Category]map[domain.ItemID]domain.Definition, len(domain.Categories))
	for _, cat := range domain.Categories {
		list := c.Items(cat)
		m := make(map[domain.ItemID]domain.Definition, len(list))
		for _, def := range list {
			if !def.ID.Valid() {
				continue
			}
			m[def.ID] = def
		}
		index[cat] = m
	}

	c.mu.Lock()
	c.index = index
	c.mu.Unlock()
}

// Items returns the ordered backing list of a category
func (c *Catalog) Items(cat domain.Category) []domain.Definition {
	if cat == domain.CategoryFrame {
		return c.frames
	}
	return c.avatars
}

// Lookup finds a definition by category and id
func (c *Catalog) Lookup(cat domain.Category, id domain.ItemID) (domain.Definition, bool) {
	if !id.Valid() {
		return domain.Definition{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.index[cat][id]
	return def, ok
}

// Get finds an avatar definition
func (c *Catalog) Get(id domain.ItemID) (domain.Definition, bool) {
	return c.Lookup(domain.CategoryAvatar, id)
}

// GetFrame finds a frame definition
func (c *Catalog) GetFrame(id domain.ItemID) (domain.Definition, bool) {
	return c.Lookup(domain.CategoryFrame, id)
}

// DefaultFor returns the first entry flagged default, else the first entry
// with a usable id. ok is false for an empty or all-blank list.
func (c *Catalog) DefaultFor(cat domain.Category) (domain.Definition, bool) {
	list := c.Items(cat)
	for _, def := range list {
		if def.IsDefault && def.ID.Valid() {
			return def, true
		}
	}
	for _, def := range list {
		if def.ID.Valid() {
			return def, true
		}
	}
	return domain.Definition{}, false
}

// DefaultOrFirst returns the default avatar
func (c *Catalog) DefaultOrFirst() (domain.Definition, bool) {
	return c.DefaultFor(domain.CategoryAvatar)
}

// DefaultFrameOrFirst returns the default frame
func (c *Catalog) DefaultFrameOrFirst() (domain.Definition, bool) {
	return c.DefaultFor(domain.CategoryFrame)
}

// Validate reports authoring problems. Nothing here is enforced; callers log
// the warnings and keep going.
func (c *Catalog) Validate() []string {
	var warnings []string
	for _, cat := range domain.Categories {
		list := c.Items(cat)
		if len(list) == 0 {
			warnings = append(warnings, fmt.Sprintf(WarnFmtEmptyList, cat))
			continue
		}

		seen := make(map[domain.ItemID]bool, len(list))
		defaults := 0
		for i, def := range list {
			if !def.ID.Valid() {
				warnings = append(warnings, fmt.Sprintf(WarnFmtBlankID, cat, i))
				continue
			}
			if seen[def.ID] {
				warnings = append(warnings, fmt.Sprintf(WarnFmtDuplicateID, cat, def.ID))
			}
			seen[def.ID] = true
			if def.IsDefault {
				defaults++
			}
		}

		switch {
		case defaults == 0:
			warnings = append(warnings, fmt.Sprintf(WarnFmtNoDefault, cat))
		case defaults > 1:
			warnings = append(warnings, fmt.Sprintf(WarnFmtMultipleDefaults, defaults, cat))
		}
	}
	return warnings
}
