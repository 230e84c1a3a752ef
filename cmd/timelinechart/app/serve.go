package app

import (
	"github.com/spf13/cobra"

	"timelinechart/internal/server"
	"timelinechart/pkg/chart"
	"timelinechart/pkg/errors"
	"timelinechart/pkg/ingest"
)

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	var (
		data        string
		chartConfig string
	)
	cfg := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive timeline page",
		Long: `Serve hosts the timeline in a browser page. Pointer input is handled by
the engine on the server and scene updates are pushed to the page over a
WebSocket.

When the timeline cannot be loaded the page is served without the chart.`,
		Example: `  timelinechart serve --data timeline.json
  timelinechart serve --data https://example.com/timeline.json --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if data == "" {
				data = a.config.Data
			}
			if chartConfig == "" {
				chartConfig = a.config.ChartConfig
			}
			if !cmd.Flags().Changed("host") {
				cfg.Host = a.config.Host
			}
			if !cmd.Flags().Changed("port") {
				cfg.Port = a.config.Port
			}
			if !cmd.Flags().Changed("title") {
				cfg.Title = a.config.Title
			}

			chartCfg, err := chart.LoadConfig(chartConfig)
			if err != nil {
				return err
			}

			var (
				doc     *ingest.Data
				loadErr error
			)
			if data == "" {
				loadErr = &errors.ValidationError{Field: "data", Message: "no timeline document configured"}
			} else {
				doc, loadErr = ingest.NewLoader(ingest.WithLogger(*a.logger)).Load(cmd.Context(), data)
			}
			if loadErr != nil {
				a.logger.Error().Err(loadErr).Str("data", data).Msg("Failed to load timeline")
			}

			srv, err := server.New(cfg, chartCfg, doc, loadErr, a.logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&data, "data", "d", "", "timeline document path or URL")
	flags.StringVarP(&chartConfig, "config", "c", "", "chart configuration YAML")
	flags.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "listen port")
	flags.StringVar(&cfg.Title, "title", cfg.Title, "page title")
	return cmd
}
