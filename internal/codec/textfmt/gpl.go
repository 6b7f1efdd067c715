package textfmt

import (
	"fmt"
	"strings"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

const gplMaxColumns = 16

// GPLColor renders a single color as a one-entry GIMP palette.
func GPLColor(c model.ColorRecord) []byte {
	return gpl(colorfmt.NameOrHex(c), 1, []model.ColorRecord{c})
}

// GPLPalette renders a palette as a GIMP palette with up to 16 columns.
func GPLPalette(p model.PaletteRecord) []byte {
	return gpl(p.Name, min(len(p.Colors), gplMaxColumns), p.Colors)
}

func gpl(name string, columns int, colors []model.ColorRecord) []byte {
	var b strings.Builder
	b.WriteString("GIMP Palette\n")
	fmt.Fprintf(&b, "Name: %s\n", singleLine(name))
	fmt.Fprintf(&b, "Columns: %d\n", columns)
	b.WriteString("#\n")
	for _, c := range colors {
		fmt.Fprintf(&b, "%3d %3d %3d\t%s\n",
			colorfmt.Channel8(c.Red),
			colorfmt.Channel8(c.Green),
			colorfmt.Channel8(c.Blue),
			singleLine(colorfmt.NameOrHex(c)),
		)
	}
	return []byte(b.String())
}
