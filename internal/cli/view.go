package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/pipeline"
)

// viewCommand creates the view command: an interactive terminal viewer
// that scrolls, pans and zooms a live layout.
func (c *CLI) viewCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "view [items-file]",
		Short: "Browse items interactively in the terminal",
		Long: `Browse items interactively in the terminal.

The lane is laid out in terminal cells and relaid on every resize, pan or
zoom. Only the rows in view are drawn.

Keys:
  ↑/↓ j/k     scroll          pgup/pgdn   page
  ←/→ h/l     shift window    +/-         zoom
  t           toggle packing  q           quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), args, opts)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runView(ctx context.Context, args []string, opts pipeline.Options) error {
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
		return err
	}
	if len(items) == 0 {
		printWarning("No items in %s", src.Ref())
		return nil
	}

	m, err := newViewModel(items, opts)
	if err != nil {
		return err
	}
	defer m.close()

	c.Logger.Debug("viewer started", "items", len(items), "source", src.Ref())
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
