package projections

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newNameCollator returns a Japanese collator. Collators are not safe for
// concurrent use, so each query builds its own.
func newNameCollator() *collate.Collator {
	return collate.New(language.Japanese)
}

// sortNames orders display names the way a Japanese reader expects.
func sortNames(names []string) {
	newNameCollator().SortStrings(names)
}

// sortByName stably orders items by the name returned from key.
func sortByName[T any](items []T, key func(T) string) {
	c := newNameCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
