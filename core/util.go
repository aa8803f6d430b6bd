package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SplitList splits a comma-joined list (e.g. "Arte, Voluntariado"), dropping blanks and duplicates.
func SplitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		items = AppendUnique(items, item)
	}
	return items
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// AppendUnique appends the cleaned item unless it is blank or already present.
func AppendUnique(items []string, item string) []string {
	item = CleanString(item)
	if item == "" {
		return items
	}
	for _, it := range items {
		if it == item {
			return items
		}
	}
	return append(items, item)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Option is a value/label pair for <select> inputs.
type Option struct {
	Value string
	Label string
}
