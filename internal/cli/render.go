package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/pipeline"
)

// renderCommand creates the render command: load, lay out and write
// charts in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags       chartFlags
		output      string
		formatsStr  string
		tooltips    bool
		interactive bool
		columns     int
		color       bool
	)

	cmd := &cobra.Command{
		Use:   "render [items-file]",
		Short: "Render items to SVG, JSON or text charts",
		Long: `Render items to SVG, JSON or text charts.

Items are read from a JSON, YAML, TOML or CSV file, or from a MongoDB
collection with --mongo-uri. Each requested format is written next to the
input (or to the base path given with -o).

Layouts and rendered charts are cached locally, or in redis with --cache-url.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(opts.Render.Formats) == 0 {
				opts.Render.Formats = parseFormats(formatsStr)
			}
			if cmd.Flags().Changed("tooltips") {
				opts.Render.Tooltips = tooltips
			}
			if cmd.Flags().Changed("interactive") {
				opts.Render.Interactive = interactive
			}
			if cmd.Flags().Changed("columns") {
				opts.Render.Columns = columns
			}
			if cmd.Flags().Changed("color") {
				opts.Render.Color = color
			}
			return c.runRender(cmd.Context(), args, opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, txt (comma-separated)")
	cmd.Flags().BoolVar(&tooltips, "tooltips", false, "add hover titles with each item's span (svg)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "embed hover highlighting (svg)")
	cmd.Flags().IntVar(&columns, "columns", pipeline.DefaultColumns, "text output width in cells (txt)")
	cmd.Flags().BoolVar(&color, "color", false, "color items in text output (txt)")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, args []string, opts pipeline.Options, output string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	src, err := newSource(ctx, args, opts)
	if err != nil {
		return err
	}
	defer closeSource(ctx, src)

	runner, err := c.newRunner(ctx, opts.Cache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Render.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.done("render finished", "items", result.Stats.ItemCount, "rows", result.Stats.RowCount)

	input := ""
	if src.Kind() == "file" {
		input = src.Ref()
	}
	base := basePath(output, input)
	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var written []string
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if path == input {
			path = base + ".chart." + format
		}
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.ItemCount, result.Stats.RowCount, result.CacheInfo.LayoutHit)
	return nil
}

// basePath derives the base output path. Without an output, the input's
// extension is stripped; a known format extension on output is stripped too.
// Sources without a file name write to ./timelane.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
