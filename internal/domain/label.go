package domain

import "regexp"

// Label is a user-defined coloured tag, keyed by name.
type Label struct {
	Name  string
	Color string
}

// Pseudo-labels understood by list filters.
const (
	LabelFilterAll    = "all"
	LabelFilterUnread = "__unread__"
)

const DefaultLabelColor = "#6b7280"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether c is a #rgb or #rrggbb colour.
func ValidColor(c string) bool {
	return hexColor.MatchString(c)
}
