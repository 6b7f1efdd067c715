package textfmt

import (
	"fmt"
	"strings"
	"unicode"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

// swiftKeywords are reserved words that cannot be used as a bare identifier.
var swiftKeywords = map[string]bool{
	"as": true, "break": true, "case": true, "catch": true, "class": true,
	"continue": true, "default": true, "defer": true, "do": true, "else": true,
	"enum": true, "extension": true, "false": true, "for": true, "func": true,
	"if": true, "import": true, "in": true, "init": true, "is": true, "let": true,
	"nil": true, "private": true, "public": true, "repeat": true, "return": true,
	"self": true, "static": true, "struct": true, "super": true, "switch": true,
	"throw": true, "true": true, "try": true, "var": true, "where": true, "while": true,
}

// SnippetColor renders c as a SwiftUI Color constant.
func SnippetColor(c model.ColorRecord) []byte {
	var b strings.Builder
	writeSnippetHeader(&b, "Color", colorfmt.NameOrHex(c))
	writeSnippetConstant(&b, Identifier(colorfmt.NameOrHex(c)), c)
	b.WriteString("}\n")
	return []byte(b.String())
}

// SnippetPalette renders one constant per color, prefixed with the palette name.
func SnippetPalette(p model.PaletteRecord) []byte {
	var b strings.Builder
	writeSnippetHeader(&b, "Palette", p.Name)
	names := newUniqueNames("")
	for _, c := range p.Colors {
		name := names.next(Identifier(p.Name + " " + colorfmt.NameOrHex(c)))
		writeSnippetConstant(&b, name, c)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeSnippetHeader(b *strings.Builder, kind, name string) {
	fmt.Fprintf(b, "// Exported from %s\n", Source)
	fmt.Fprintf(b, "// %s: %s\n\n", kind, singleLine(name))
	b.WriteString("import SwiftUI\n\n")
	b.WriteString("extension Color {\n")
}

func writeSnippetConstant(b *strings.Builder, name string, c model.ColorRecord) {
	c = colorfmt.Clamped(c)
	fmt.Fprintf(b, "    static let %s = Color(red: %.3f, green: %.3f, blue: %.3f, opacity: %.2f)\n",
		name, c.Red, c.Green, c.Blue, c.Alpha)
}

// Identifier camel-cases s: the first word lowercased, later words capitalized,
// and every character outside [A-Za-z0-9] removed. Results that would not be
// a valid identifier are prefixed with "color".
func Identifier(s string) string {
	var b strings.Builder
	for i, word := range strings.Fields(s) {
		word = strings.ToLower(word)
		if i > 0 {
			word = capitalize(word)
		}
		for _, r := range word {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				b.WriteRune(r)
			}
		}
	}

	id := b.String()
	switch {
	case id == "":
		return "color"
	case id[0] >= '0' && id[0] <= '9':
		return "color" + id
	case swiftKeywords[id]:
		return id + "Color"
	}
	return id
}

func capitalize(word string) string {
	for i, r := range word {
		if unicode.IsLetter(r) {
			return word[:i] + string(unicode.ToUpper(r)) + word[i+len(string(r)):]
		}
		if unicode.IsDigit(r) {
			return word
		}
	}
	return word
}
