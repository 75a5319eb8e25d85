package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

// Output formats for the layout command.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// layoutCommand creates the layout command for computing stack layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
		refresh bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <cards>",
		Short: "Compute the vertical layout of a card stack",
		Long: `Compute the vertical layout of a card stack.

The layout command takes a card count and computes, for each card, the
vertical offset to the card below it and the resulting y position of the
card top. When the stack no longer fits the viewport at the default
visibility, the cards just above the bottom card are compressed so the
stack exactly fills the available span.

Geometry and visibility default from ~/.config/freecell/layout.toml and
can be overridden per invocation with flags.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidCardCount, "card count must be an integer, got %q", args[0])
			}
			if format != formatTable && format != formatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want table or json)", format)
			}
			opts.CardCount = count
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, format, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout artifact to a JSON file")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "stdout format: table (default), json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")

	// Geometry and visibility flags
	cmd.Flags().Float64Var(&opts.ViewportHeight, "viewport-height", 0, "viewport height in pixels")
	cmd.Flags().Float64Var(&opts.CardHeight, "card-height", 0, "card height in pixels")
	cmd.Flags().Float64Var(&opts.DefaultVisibility, "visibility", 0, "preferred visible pixels per card")
	cmd.Flags().IntVar(&opts.MaxCards, "max-cards", 0, "card count at which compression bottoms out")
	cmd.Flags().IntVar(&opts.CompressedGroupSize, "group-size", 0, "cards above the bottom card that compress")
	cmd.Flags().Float64Var(&opts.CompressionFactor, "compression-factor", 0, "pixels removed per excess card")

	return cmd
}

// runLayout computes the layout and writes or prints the result.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output, format string, noCache bool) error {
	cfg, err := loadDefaultConfig()
	if err != nil {
		return err
	}
	cfg.applyTo(&opts)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, noCache, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d cards", layout.CardCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output != "" {
		if err := stack.WriteLayoutFile(layout, output); err != nil {
			return err
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(layout.CardCount, layout.Geometry.Span(), cacheHit)
		printNewline()
		printNextStep("Preview", fmt.Sprintf("freecell preview --cards %d", layout.CardCount))
		return nil
	}

	switch format {
	case formatJSON:
		data, err := stack.MarshalLayout(layout)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		printLayoutTable(layout)
		printStats(layout.CardCount, layout.Geometry.Span(), cacheHit)
	}
	return nil
}

// printLayoutTable prints per-card offsets and positions.
func printLayoutTable(l stack.Layout) {
	fmt.Println(StyleTitle.Render("Stack layout") + " " + StyleDim.Render(fmt.Sprintf("(%s)", l.ID)))
	printKeyValue("viewport", fmt.Sprintf("%.0f px", l.Geometry.ViewportHeight))
	printKeyValue("card height", fmt.Sprintf("%.0f px", l.Geometry.CardHeight))
	printKeyValue("default visibility", fmt.Sprintf("%.0f px", l.Visibility.Default))
	printNewline()

	header := fmt.Sprintf("  %4s  %10s  %10s", "card", "offset", "y")
	fmt.Println(StyleDim.Render(header))
	for i := range l.Offsets {
		row := fmt.Sprintf("  %4d  %10.2f  %10.2f", i, l.Offsets[i], l.Positions[i])
		if i == len(l.Offsets)-1 {
			// Bottom card: carries no offset to a card below it
			fmt.Println(StyleHighlight.Render(row))
			continue
		}
		fmt.Println(StyleValue.Render(row))
	}
}
