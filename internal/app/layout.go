package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/lu-zhengda/mailroom/internal/store"
)

const layoutKey = "layout"

// Layout is the persisted pane arrangement: the widths of the navigation,
// list and reader panes, and whether navigation is collapsed to icons.
type Layout struct {
	Sizes     []int `json:"sizes"`
	Collapsed bool  `json:"collapsed"`
}

// DefaultLayout is used until the user resizes anything.
func DefaultLayout() Layout {
	return Layout{Sizes: []int{265, 440, 1024}, Collapsed: true}
}

// LoadLayout reads the saved layout. Missing or unreadable values fall
// back to DefaultLayout.
func LoadLayout(ctx context.Context, st store.Store) Layout {
	raw, err := st.GetPreference(ctx, layoutKey)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultLayout()
	}
	if err != nil {
		log.Printf("[layout] failed to read layout: %v", err)
		return DefaultLayout()
	}
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil || len(l.Sizes) != 3 {
		log.Printf("[layout] ignoring malformed layout %q", raw)
		return DefaultLayout()
	}
	return l
}

// SaveLayout stores l.
func SaveLayout(ctx context.Context, st store.Store, l Layout) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := st.SetPreference(ctx, layoutKey, raw); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}
