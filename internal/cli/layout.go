package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/render"
)

// layoutCommand creates the layout command for computing lane layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  chartFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [items-file]",
		Short: "Compute the lane layout of items",
		Long: `Compute the lane layout of items.

The layout command packs items into rows and prints one table line per
parent. The packed chart is written to <input>.layout.json, the same
geometry 'render -f json' draws from.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args, opts, output, quiet)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the row table")

	return cmd
}

// runLayout loads items, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, args []string, opts pipeline.Options, output string, quiet bool) error {
	if err := opts.ValidateForLayout(); err != nil {
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

	items, err := runner.Load(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	chart, cacheHit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		input := ""
		if src.Kind() == "file" {
			input = src.Ref()
		}
		outputPath = basePath("", input) + ".layout.json"
	}

	data, err := render.MarshalChart(chart)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := writeFile(outputPath, data); err != nil {
		return err
	}

	if !quiet {
		writeRowTable(stdout, chart)
		printNewline()
	}
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(chart.Items), chart.Rows, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+strings.Join(args, " ")+" -f svg")

	return nil
}

// writeRowTable prints one line per parent band: its key, rows, item count
// and the span its items cover.
func writeRowTable(w io.Writer, chart *render.Chart) {
	type agg struct {
		items      int
		first, end time.Time
	}
	byBand := make([]agg, len(chart.Parents))
	for i, it := range chart.Items {
		p := parentBandAt(chart, chart.Bounds[i].Y)
		if p < 0 {
			continue
		}
		a := &byBand[p]
		if a.items == 0 || it.Start.Before(a.first) {
			a.first = it.Start
		}
		if a.items == 0 || it.End.After(a.end) {
			a.end = it.End
		}
		a.items++
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(chart.Parents))
	for i, p := range chart.Parents {
		key := p.Key
		if key == "" {
			key = "-"
		}
		a := byBand[i]
		first, end := "-", "-"
		if a.items > 0 {
			first, end = item.FormatTime(a.first), item.FormatTime(a.end)
		}
		rows = append(rows, []string{key, strconv.Itoa(max(p.Rows, 1)), strconv.Itoa(a.items), first, end})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Parent", "Rows", "Items", "First start", "Last end").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %s .. %s · %s",
		item.FormatTime(chart.WindowStart), item.FormatTime(chart.WindowEnd), chart.Unit)))
}

// parentBandAt returns the index of the parent band containing y, or -1.
func parentBandAt(chart *render.Chart, y float64) int {
	for i, p := range chart.Parents {
		if y >= p.Bounds.Y && y < p.Bounds.MaxY() {
			return i
		}
	}
	return -1
}
