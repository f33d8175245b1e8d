package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/ytarc/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.ItemReference] to implement [list.Item].
type entryItem struct {
	entry    models.ItemReference
	position int
}

func (i entryItem) FilterValue() string { return i.entry.Title }

func (i entryItem) Title() string {
	if i.entry.Title != "" {
		return fmt.Sprintf("%d. %s", i.position, i.entry.Title)
	}
	return fmt.Sprintf("%d. %s", i.position, i.entry.CanonicalID)
}

func (i entryItem) Description() string {
	return i.entry.CanonicalID
}

func entryItems(entries []models.ItemReference) []list.Item {
	items := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = entryItem{entry: entry, position: i + 1}
	}
	return items
}
