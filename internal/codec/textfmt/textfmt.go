// Package textfmt renders colors and palettes in the plain-text formats:
// GIMP palettes, CSS custom properties, and a SwiftUI source snippet.
package textfmt

import (
	"strconv"
	"strings"
)

// Source names the producer in generated headers.
const Source = "Opalite"

// uniqueNames hands out names that have not been used yet by appending a
// numeric suffix to repeats.
type uniqueNames struct {
	seen map[string]int
	sep  string
}

func newUniqueNames(sep string) *uniqueNames {
	return &uniqueNames{seen: make(map[string]int), sep: sep}
}

func (u *uniqueNames) next(name string) string {
	n := u.seen[name]
	u.seen[name] = n + 1
	if n == 0 {
		return name
	}
	for {
		n++
		candidate := name + u.sep + strconv.Itoa(n)
		if _, taken := u.seen[candidate]; !taken {
			u.seen[candidate] = 1
			u.seen[name] = n
			return candidate
		}
	}
}

// singleLine collapses line breaks so a name cannot break the surrounding format.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
