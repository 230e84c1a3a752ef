package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"timelinechart/pkg/chart"
	"timelinechart/pkg/errors"
	"timelinechart/pkg/ingest"
	"timelinechart/pkg/schedule"
)

type renderOptions struct {
	data         string
	chartConfig  string
	output       string
	legendOutput string
	hide         []string
	legendClicks []string
	zoom         string
	pan          string
}

// NewRenderCommand creates the render command.
func (a *App) NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a timeline to SVG",
		Long: `Render loads a timeline document (JSON or YAML, from a file or an http(s)
URL) and writes the chart as a standalone SVG file.

Legend clicks, zoom, and pan can be replayed before writing so the output shows
a filtered or magnified view.`,
		Example: `  timelinechart render --data timeline.json
  timelinechart render --data timeline.yaml --hide committee --output out.svg
  timelinechart render --data https://example.com/timeline.json --zoom 400,150,2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.data == "" {
				opts.data = a.config.Data
			}
			if opts.chartConfig == "" {
				opts.chartConfig = a.config.ChartConfig
			}
			return a.runRender(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.data, "data", "d", "", "timeline document path or URL (required)")
	flags.StringVarP(&opts.chartConfig, "config", "c", "", "chart configuration YAML")
	flags.StringVarP(&opts.output, "output", "o", "", "output SVG file, - for stdout (default: data name with .svg)")
	flags.StringVar(&opts.legendOutput, "legend-output", "", "write the legend as an HTML fragment to this file")
	flags.StringSliceVar(&opts.hide, "hide", nil, "categories hidden initially")
	flags.StringSliceVar(&opts.legendClicks, "legend-click", nil, "legend clicks to apply, in order")
	flags.StringVar(&opts.zoom, "zoom", "", "zoom before writing: x,y,factor")
	flags.StringVar(&opts.pan, "pan", "", "pan before writing: dx,dy")
	return cmd
}

func (a *App) runRender(cmd *cobra.Command, opts *renderOptions) error {
	if opts.data == "" {
		return &errors.ValidationError{Field: "data", Message: "a timeline document is required"}
	}
	zoom, err := parseFloats("zoom", opts.zoom, 3)
	if err != nil {
		return err
	}
	pan, err := parseFloats("pan", opts.pan, 2)
	if err != nil {
		return err
	}

	cfg, err := chart.LoadConfig(opts.chartConfig)
	if err != nil {
		return err
	}
	data, err := ingest.NewLoader(ingest.WithLogger(*a.logger)).Load(cmd.Context(), opts.data)
	if err != nil {
		return fmt.Errorf("loading timeline: %w", err)
	}

	// Rendering is a single pass, hover timers never need to fire.
	c := chart.New(chart.Params{}, cfg,
		chart.WithLogger(a.logger.With().Str("component", "chart").Logger()),
		chart.WithScheduler(schedule.NewManual(time.Now())),
	)
	c.SetData(data)
	c.SetInitialVisibility(initialVisibility(cfg.Visibility.Initial, opts.hide))
	c.Update()

	for _, g := range opts.legendClicks {
		mode := c.ClickLegend(g)
		a.logger.Debug().Str("category", g).Stringer("mode", mode).Msg("Applied legend click")
	}
	if zoom != nil {
		c.ZoomAt(zoom[0], zoom[1], zoom[2])
	}
	if pan != nil {
		c.Pan(pan[0], pan[1])
	}

	outputFile := getOutputFilename(opts.data, opts.output)
	if err := writeTo(outputFile, cmd.OutOrStdout(), c.WriteSVG); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	if opts.legendOutput != "" {
		if err := writeTo(opts.legendOutput, cmd.OutOrStdout(), c.WriteLegend); err != nil {
			return fmt.Errorf("writing %s: %w", opts.legendOutput, err)
		}
	}

	a.logger.Info().
		Str("data", opts.data).
		Str("output", outputFile).
		Int("events", len(data.Events)).
		Msg("Timeline rendered")
	if outputFile != "-" {
		p := message.NewPrinter(language.English)
		_, _ = p.Fprintf(cmd.OutOrStdout(), "Rendered %d events in %d categories to %s\n",
			len(data.Events), len(c.Categories()), outputFile)
	}
	return nil
}

// initialVisibility merges the configured defaults with categories hidden on
// the command line.
func initialVisibility(configured map[string]bool, hide []string) map[string]bool {
	out := make(map[string]bool, len(configured)+len(hide))
	for k, v := range configured {
		out[k] = v
	}
	for _, g := range hide {
		out[g] = false
	}
	return out
}

// parseFloats parses a comma separated list of exactly n numbers. An empty
// value yields nil.
func parseFloats(flag, value string, n int) ([]float64, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, &errors.ValidationError{Field: flag, Value: value, Message: fmt.Sprintf("expected %d comma separated numbers", n)}
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &errors.ValidationError{Field: flag, Value: value, Message: "not a number: " + p}
		}
		out[i] = f
	}
	return out, nil
}

// getOutputFilename returns outputFile, or the data file name with an .svg
// extension when none was given.
func getOutputFilename(dataFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}
	base := filepath.Base(strings.TrimRight(dataFile, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" || name == "." {
		name = "timeline"
	}
	return name + ".svg"
}

// writeTo runs write against path, or stdout when path is "-".
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
