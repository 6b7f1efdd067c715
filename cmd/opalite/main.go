package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"opalite-go/internal/app"
	"opalite-go/internal/codec"
	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/config"
	"opalite-go/internal/opalite"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, codec.UserMessage(err))
		os.Exit(1)
	}
}

// newApp reads the config and creates an OpaliteApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddColor", "ApplyImport").
func newApp(operation string) (*app.OpaliteApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewOpaliteApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:           "opalite",
	Short:         "Color and palette library with interchange exports",
	SilenceErrors: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		author, _ := cmd.Flags().GetString("author")
		device, _ := cmd.Flags().GetString("device")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		if device == "" {
			if device, err = os.Hostname(); err != nil {
				device = "Unknown"
			}
		}

		cfg := config.NewConfig(author, device, defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Author:   %s\n", cfg.AuthorName)
		fmt.Printf("Device:   %s\n", cfg.DeviceName)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Author:         %s\n", cfg.AuthorName)
		fmt.Printf("Device:         %s\n", cfg.DeviceName)
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Library:        %s %s\n", cfg.Library.Type, cfg.Library.DataDir)
		fmt.Printf("Default Format: %s\n", valueOr(cfg.Export.DefaultFormat, "(native)"))
		fmt.Printf("Output Dir:     %s\n", valueOr(cfg.Export.OutputDir, "(working directory)"))
		fmt.Printf("Public Key:     %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage sealing keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair used for sealed exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readNewPassphrase()
		if err != nil {
			return err
		}
		if err := a.SetupKeys(pass, force); err != nil {
			return err
		}

		fmt.Println("Sealing keys generated.")
		return nil
	},
}

// formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List export formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range codec.Formats() {
			free := ""
			if f.Free {
				free = "  [free]"
			}
			fmt.Printf("%-15s  %-16s  %-24s  %s%s\n", f.ID, f.Extension, f.Label, f.Scope, free)
		}
		return nil
	},
}

// color command
var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Manage colors",
}

var colorAddCmd = &cobra.Command{
	Use:   "add HEX",
	Short: "Add a color from a hex code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		notes, _ := cmd.Flags().GetString("notes")

		a, err := newApp("AddColor")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.AddColor(name, args[0], notes)
		if err != nil {
			return err
		}

		fmt.Printf("Added %s %s\n", c.ID, colorfmt.NameOrHex(*c))
		return nil
	},
}

var colorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List colors",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListColors")
		if err != nil {
			return err
		}
		defer a.Close()

		colors, err := a.ListColors()
		if err != nil {
			return err
		}

		if len(colors) == 0 {
			fmt.Println("No colors.")
			return nil
		}

		for _, c := range colors {
			fmt.Printf("%s  %s  %s\n", c.ID, colorfmt.HexWithAlpha(c), c.Name)
		}
		return nil
	},
}

// palette command
var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Manage palettes",
}

var paletteCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty palette",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		a, err := newApp("CreatePalette")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.CreatePalette(args[0], notes, tags)
		if err != nil {
			return err
		}

		fmt.Printf("Created %s %s\n", p.ID, p.Name)
		return nil
	},
}

var paletteAddCmd = &cobra.Command{
	Use:   "add PALETTE_ID COLOR_ID",
	Short: "Append a color to a palette",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddColorToPalette")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.AddColorToPalette(args[0], args[1]); err != nil {
			return err
		}

		fmt.Println("Color added to palette.")
		return nil
	},
}

var paletteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List palettes with their colors",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListPalettes")
		if err != nil {
			return err
		}
		defer a.Close()

		palettes, err := a.ListPalettes()
		if err != nil {
			return err
		}

		if len(palettes) == 0 {
			fmt.Println("No palettes.")
			return nil
		}

		for _, p := range palettes {
			pinned := ""
			if p.IsPinned {
				pinned = "  [pinned]"
			}
			fmt.Printf("%s  %s  (%d colors)%s\n", p.ID, p.Name, len(p.Colors), pinned)
			for _, c := range p.Colors {
				fmt.Printf("    %s  %s\n", colorfmt.Hex(c), c.Name)
			}
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a color or palette",
}

var exportColorCmd = &cobra.Command{
	Use:   "color ID",
	Short: "Export a color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, "ExportColor", func(a *app.OpaliteApp, format string, seal bool) (*codec.Export, error) {
			return a.ExportColor(args[0], format, seal)
		})
	},
}

var exportPaletteCmd = &cobra.Command{
	Use:   "palette ID",
	Short: "Export a palette",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, "ExportPalette", func(a *app.OpaliteApp, format string, seal bool) (*codec.Export, error) {
			return a.ExportPalette(args[0], format, seal)
		})
	},
}

func runExport(cmd *cobra.Command, operation string, export func(*app.OpaliteApp, string, bool) (*codec.Export, error)) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	seal, _ := cmd.Flags().GetBool("seal")

	a, err := newApp(operation)
	if err != nil {
		return err
	}
	defer a.Close()

	exp, err := export(a, format, seal)
	if err != nil {
		return err
	}

	if out == "-" {
		_, err := os.Stdout.Write(exp.Data)
		return err
	}

	path, err := a.WriteExport(exp, out)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s (%s, %d bytes)\n", path, exp.Format.Label, len(exp.Data))
	return nil
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Preview or apply a native color or palette file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")

		operation := "PreviewImport"
		if apply {
			operation = "ApplyImport"
		}
		a, err := newApp(operation)
		if err != nil {
			return err
		}
		defer a.Close()

		preview, err := a.PreviewImport(args[0], func() (string, error) {
			return readPassphrase("Passphrase: ")
		})
		if err != nil {
			return err
		}
		printPreview(preview)

		if !apply {
			fmt.Println("\nRun again with --apply to import.")
			return nil
		}

		res, err := a.ApplyImport(preview, args[0])
		if err != nil {
			return err
		}

		switch {
		case res.PaletteCreated:
			fmt.Printf("Palette created with %d new color(s).\n", res.ColorsCreated)
		case res.PaletteUpdated:
			fmt.Printf("Palette updated with %d new color(s).\n", res.ColorsCreated)
		case res.ColorsCreated > 0:
			fmt.Println("Color imported.")
		default:
			fmt.Println("Nothing to import.")
		}
		return nil
	},
}

func printPreview(p *opalite.ImportPreview) {
	if p.Sealed {
		fmt.Println("Sealed file opened.")
	}

	if c := p.Color; c != nil {
		status := "new"
		if c.WillSkip() {
			status = "already in library, will be skipped"
		}
		fmt.Printf("Color %s  %s  %s: %s\n", c.Decoded.ID, colorfmt.Hex(c.Decoded), c.Decoded.Name, status)
		return
	}

	if pp := p.Palette; pp != nil {
		status := "new palette"
		if pp.WillUpdate() {
			status = fmt.Sprintf("updates existing palette %q", pp.ExistingPalette.Name)
		}
		fmt.Printf("Palette %s  %s: %s\n", pp.Decoded.ID, pp.Decoded.Name, status)
		for _, c := range pp.NewColors {
			fmt.Printf("  + %s  %s\n", colorfmt.Hex(c), c.Name)
		}
		for _, c := range pp.ExistingColors {
			fmt.Printf("  = %s  %s\n", colorfmt.Hex(c), c.Name)
		}
		fmt.Printf("%d new, %d already in library\n", len(pp.NewColors), len(pp.ExistingColors))
	}
}

// inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Describe an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Inspect")
		if err != nil {
			return err
		}
		defer a.Close()

		in, err := a.Inspect(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Kind: %s\n", in.Kind)
		switch {
		case in.Kind == "ase":
			fmt.Printf("Blocks: %d\n", in.ASEBlocks)
		case in.Entry != nil:
			fmt.Printf("Member:   %s\n", in.Entry.Name)
			fmt.Printf("Size:     %d\n", len(in.Entry.Data))
			fmt.Printf("CRC-32:   %08x\n", in.Entry.CRC32)
			fmt.Printf("Modified: %s\n", in.Entry.Modified.Format("2006-01-02 15:04:05"))
			if in.Swatches != nil {
				fmt.Printf("Swatches: %s (%d)\n", in.Swatches.Name, len(in.Swatches.Swatches))
			}
		case in.Color != nil:
			fmt.Printf("Color: %s  %s  %s\n", in.Color.ID, colorfmt.HexWithAlpha(*in.Color), in.Color.Name)
		case in.Palette != nil:
			fmt.Printf("Palette: %s  %s  (%d colors)\n", in.Palette.ID, in.Palette.Name, len(in.Palette.Colors))
			if len(in.Palette.Tags) > 0 {
				fmt.Printf("Tags: %s\n", strings.Join(in.Palette.Tags, ", "))
			}
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View library change history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-17s  %s  %-7s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Parameters,
			)
		}
		return nil
	},
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("author", "", "Author name stamped on new records")
	configInitCmd.Flags().String("device", "", "Device name stamped on new records (default: hostname)")

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)
	keysInitCmd.Flags().Bool("force", false, "Replace an existing key pair")

	// color subcommands
	colorCmd.AddCommand(colorAddCmd)
	colorCmd.AddCommand(colorListCmd)
	colorAddCmd.Flags().String("name", "", "Color name")
	colorAddCmd.Flags().String("notes", "", "Free-text notes")

	// palette subcommands
	paletteCmd.AddCommand(paletteCreateCmd)
	paletteCmd.AddCommand(paletteAddCmd)
	paletteCmd.AddCommand(paletteListCmd)
	paletteCreateCmd.Flags().String("notes", "", "Free-text notes")
	paletteCreateCmd.Flags().StringSlice("tag", nil, "Tag (repeatable)")

	// export subcommands
	exportCmd.AddCommand(exportColorCmd)
	exportCmd.AddCommand(exportPaletteCmd)
	for _, c := range []*cobra.Command{exportColorCmd, exportPaletteCmd} {
		c.Flags().StringP("format", "f", "", "Format id, see opalite formats")
		c.Flags().StringP("out", "o", "", "Output file or directory, - for stdout")
		c.Flags().Bool("seal", false, "Encrypt the export to the configured public key")
	}

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("apply", false, "Write the previewed records to the library")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
