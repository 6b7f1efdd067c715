package textfmt

import (
	"fmt"
	"strings"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

// CSSColor renders c as a :root block with --<slug> and --<slug>-hex properties.
func CSSColor(c model.ColorRecord) []byte {
	var b strings.Builder
	writeCSSHeader(&b, "Color", colorfmt.NameOrHex(c))
	b.WriteString(":root {\n")
	writeCSSProperty(&b, Slug(colorfmt.NameOrHex(c), "color"), c)
	b.WriteString("}\n")
	return []byte(b.String())
}

// CSSPalette renders every color of p as --<palette>-<color> properties.
func CSSPalette(p model.PaletteRecord) []byte {
	var b strings.Builder
	writeCSSHeader(&b, "Palette", p.Name)
	b.WriteString(":root {\n")

	prefix := Slug(p.Name, "palette")
	names := newUniqueNames("-")
	for _, c := range p.Colors {
		name := names.next(prefix + "-" + Slug(colorfmt.NameOrHex(c), "color"))
		writeCSSProperty(&b, name, c)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeCSSHeader(b *strings.Builder, kind, name string) {
	name = strings.ReplaceAll(singleLine(name), "*/", "")
	fmt.Fprintf(b, "/* Exported from %s */\n", Source)
	fmt.Fprintf(b, "/* %s: %s */\n\n", kind, name)
}

func writeCSSProperty(b *strings.Builder, name string, c model.ColorRecord) {
	fmt.Fprintf(b, "  --%s: %s;\n", name, colorfmt.CSS(c))
	fmt.Fprintf(b, "  --%s-hex: %s;\n", name, colorfmt.Hex(c))
}

// Slug lowercases s, turns spaces into hyphens and drops everything outside
// [a-z0-9-]. An empty result yields fallback.
func Slug(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
