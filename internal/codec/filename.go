package codec

import (
	"strings"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

// UntitledName is used when a name sanitizes to nothing.
const UntitledName = "Untitled"

// SanitizeFilename turns a display name into a filesystem-safe base name:
// whitespace-separated words are stripped to [A-Za-z0-9_-], their first
// letter upper-cased, and joined. The result is stable under a second pass.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		kept := strings.Map(func(r rune) rune {
			if isFilenameRune(r) {
				return r
			}
			return -1
		}, word)
		if kept == "" {
			continue
		}
		if c := kept[0]; c >= 'a' && c <= 'z' {
			kept = string(c-'a'+'A') + kept[1:]
		}
		b.WriteString(kept)
	}
	if b.Len() == 0 {
		return UntitledName
	}
	return b.String()
}

func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// ColorFilename is the base name for an exported color. Unnamed colors are
// named after their hex code.
func ColorFilename(c model.ColorRecord) string {
	if strings.TrimSpace(c.Name) == "" {
		return "Color-" + strings.TrimPrefix(colorfmt.Hex(c), "#")
	}
	return SanitizeFilename(c.Name)
}

// PaletteFilename is the base name for an exported palette.
func PaletteFilename(p model.PaletteRecord) string {
	return SanitizeFilename(p.Name)
}
