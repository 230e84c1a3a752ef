// Package server hosts a timeline chart in a browser page. The engine runs on
// a single event loop; HTTP handlers submit interactions to it and every
// resulting scene is pushed to connected pages over a WebSocket.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"timelinechart/internal/server/websocket"
	"timelinechart/pkg/chart"
	tlerrors "timelinechart/pkg/errors"
	"timelinechart/pkg/hover"
	"timelinechart/pkg/ingest"
	"timelinechart/pkg/scene"
	"timelinechart/pkg/schedule"
	"timelinechart/pkg/visibility"
)

// Server is the chart host.
type Server struct {
	config   Config
	loop     *schedule.Loop
	chart    *chart.Chart // nil when loading failed
	host     *scene.Node
	loadErr  error
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
	page     *template.Template
	logger   *zerolog.Logger

	// navigated is the link requested by the interaction being handled. Only
	// touched on the loop goroutine.
	navigated string
}

// New creates a server for data. When loadErr is set the page is served
// without the chart section and interactions are refused.
func New(cfg Config, chartCfg chart.Config, data *ingest.Data, loadErr error, logger *zerolog.Logger) (*Server, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	s := &Server{
		config:  cfg,
		loop:    schedule.NewLoop(logger, cfg.LoopBuffer),
		loadErr: loadErr,
		hub:     websocket.NewHub(logger),
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		page:   page,
		logger: logger,
	}

	if loadErr == nil && data == nil {
		s.loadErr = tlerrors.New("no timeline data")
	}
	if s.loadErr != nil {
		logger.Warn().Err(s.loadErr).Msg("Serving page without timeline")
		return s, nil
	}

	// The loop is not running yet, so building the chart here is the only
	// engine access outside it.
	s.chart = chart.New(chart.Params{}, chartCfg,
		chart.WithLogger(logger.With().Str("component", "chart").Logger()),
		chart.WithScheduler(pushScheduler{Scheduler: s.loop, after: s.timerFired}),
		chart.WithNavigator(hover.NavigatorFunc(s.navigate)),
	)
	s.chart.SetData(data)
	s.host = buildHost(data, s.chart)
	s.chart.AttachHost(s.host)
	s.chart.Update()

	logger.Debug().
		Int("events", len(data.Events)).
		Int("categories", len(s.chart.Categories())).
		Msg("Server chart ready")
	return s, nil
}

// Start runs the engine loop and the WebSocket hub until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.loop.Run(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Event loop failed")
		}
	}()
	go s.hub.Run(ctx)
}

// Run starts the server and blocks until ctx is cancelled or listening fails.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Timeline server listening")
		if err := httpServer.ListenAndServe(); err != nil && !tlerrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("Shutting down timeline server")
	return httpServer.Shutdown(shutdownCtx)
}

// Snapshot is the rendered state returned by interactions and pushed to pages.
type Snapshot struct {
	SVG        string          `json:"svg"`
	Legend     string          `json:"legend"`
	Host       string          `json:"host"`
	Transform  string          `json:"transform"`
	Scale      float64         `json:"scale"`
	Visibility map[string]bool `json:"visibility"`
	Hovered    string          `json:"hovered,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Navigate   string          `json:"navigate,omitempty"`
}

// snapshot renders the current scene. Must run on the loop.
func (s *Server) snapshot() Snapshot {
	t := s.chart.Transform()
	return Snapshot{
		SVG:        scene.Render(s.chart.SVG(), scene.SVG),
		Legend:     scene.Render(s.chart.LegendNode(), scene.HTML),
		Host:       scene.Render(s.host, scene.HTML),
		Transform:  t.String(),
		Scale:      t.Scale,
		Visibility: s.chart.Visibility(),
		Hovered:    s.chart.Hovered(),
	}
}

// interact runs action on the loop, pushes the new scene to every page, and
// returns it to the caller along with any requested navigation. Nothing is
// pushed when action fails.
func (s *Server) interact(ctx context.Context, action func() (string, error)) (Snapshot, error) {
	if s.chart == nil {
		return Snapshot{}, s.loadErr
	}
	var (
		snap      Snapshot
		actionErr error
	)
	err := s.loop.Do(ctx, func() {
		s.navigated = ""
		mode, err := action()
		if err != nil {
			actionErr = err
			return
		}
		snap = s.snapshot()
		snap.Mode = mode
		snap.Navigate = s.navigated
	})
	if err == nil {
		err = actionErr
	}
	if err != nil {
		return Snapshot{}, err
	}

	pushed := snap
	pushed.Navigate = ""
	s.hub.Broadcast(websocket.Message{Type: "scene", Data: pushed})
	return snap, nil
}

// timerFired runs on the loop after a chart timer callback.
func (s *Server) timerFired() {
	s.hub.Broadcast(websocket.Message{Type: "scene", Data: s.snapshot()})
}

// navigate records a navigation request for the interaction being handled.
// Only relative and http(s) links are forwarded to the page.
func (s *Server) navigate(link string) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https") {
		s.logger.Warn().Str("link", link).Msg("Refusing navigation to unsupported link")
		return
	}
	s.navigated = link
}

// pushScheduler runs after once every timer callback has fired, so timer
// driven scene changes reach the pages.
type pushScheduler struct {
	schedule.Scheduler
	after func()
}

func (p pushScheduler) AfterFunc(d time.Duration, f func()) schedule.Timer {
	return p.Scheduler.AfterFunc(d, func() {
		f()
		p.after()
	})
}

// buildHost renders the per-category event list that follows the legend:
// one header per category and one entry per event.
func buildHost(data *ingest.Data, c *chart.Chart) *scene.Node {
	root := scene.New("div").AddClass("events")
	groupOf := func(e ingest.Event) string { return e.Group }
	byGroup := lo.GroupBy(data.Events, groupOf)
	groups := lo.Uniq(lo.Map(data.Events, func(e ingest.Event, _ int) string { return groupOf(e) }))

	for _, g := range groups {
		root.Append("h3").AddClass("group_header").SetText(c.CategoryLabel(g)).ID = g
		list := root.Append("ul")
		for _, e := range byGroup[g] {
			item := list.Append("li").AddClass(visibility.Class(g), "mg_"+g)
			item.Append("a").SetAttr("href", e.Link).SetText(e.Name)
			item.Append("span").SetText(" " + e.Start().Format("2006-01-02"))
		}
	}
	return root
}
