package server

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"

	tlerrors "timelinechart/pkg/errors"
	"timelinechart/pkg/scene"
	"timelinechart/pkg/schedule"
	"timelinechart/pkg/visibility"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type wheelRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
}

type zoomRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor"`
}

// decode reads an optional JSON body into v. An empty body leaves v unchanged.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
	if tlerrors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ok(w, map[string]any{
		"status":   "ok",
		"timeline": s.chart != nil,
		"clients":  s.hub.ClientCount(),
	})
}

type pageData struct {
	Title  string
	Error  string
	SVG    template.HTML
	Legend template.HTML
	Host   template.HTML
	Script template.JS
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: s.config.Title, Script: template.JS(pageScript)}
	if s.chart == nil {
		data.Error = s.loadErr.Error()
	} else {
		var snap Snapshot
		if err := s.loop.Do(r.Context(), func() { snap = s.snapshot() }); err != nil {
			s.engineError(w, err)
			return
		}
		// Scene output is escaped by the scene renderer.
		data.SVG = template.HTML(snap.SVG)
		data.Legend = template.HTML(snap.Legend)
		data.Host = template.HTML(snap.Host)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	if s.chart == nil {
		unavailable(w, "Timeline unavailable", s.loadErr.Error())
		return
	}
	var doc string
	err := s.loop.Do(r.Context(), func() {
		doc = scene.XMLHeader + scene.Render(s.chart.SVG(), scene.SVG) + "\n"
	})
	if err != nil {
		s.engineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = io.WriteString(w, doc)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func() (string, error) { return "", nil })
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	s.respond(w, r, func() (string, error) {
		mode := s.chart.ClickLegend(group)
		if mode == visibility.ModeNone {
			return "", tlerrors.NewNotFoundError("category", group)
		}
		return mode.String(), nil
	})
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "Invalid pan request", err.Error())
		return
	}
	s.respond(w, r, func() (string, error) {
		s.chart.Pan(req.DX, req.DY)
		return "", nil
	})
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	var req wheelRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "Invalid wheel request", err.Error())
		return
	}
	s.respond(w, r, func() (string, error) {
		s.chart.Wheel(req.X, req.Y, req.DeltaY)
		return "", nil
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	req := zoomRequest{Factor: 2}
	if err := decode(r, &req); err != nil {
		badRequest(w, "Invalid zoom request", err.Error())
		return
	}
	if req.Factor <= 0 {
		s.engineError(w, tlerrors.NewValidationError("factor", req.Factor, "must be positive"))
		return
	}
	s.respond(w, r, func() (string, error) {
		s.chart.ZoomAt(req.X, req.Y, req.Factor)
		return "", nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func() (string, error) {
		s.chart.DoubleClick()
		return "", nil
	})
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req point
	if err := decode(r, &req); err != nil {
		badRequest(w, "Invalid pointer request", err.Error())
		return
	}
	s.respond(w, r, func() (string, error) {
		s.chart.PointerMove(req.X, req.Y)
		return "", nil
	})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func() (string, error) {
		s.chart.PointerOut()
		return "", nil
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req point
	if err := decode(r, &req); err != nil {
		badRequest(w, "Invalid click request", err.Error())
		return
	}
	s.respond(w, r, func() (string, error) {
		s.chart.ClickAt(req.X, req.Y)
		return "", nil
	})
}

// respond runs an interaction and writes the resulting snapshot.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, action func() (string, error)) {
	if s.chart == nil {
		unavailable(w, "Timeline unavailable", s.loadErr.Error())
		return
	}
	snap, err := s.interact(r.Context(), action)
	if err != nil {
		s.engineError(w, err)
		return
	}
	ok(w, snap)
}

func (s *Server) engineError(w http.ResponseWriter, err error) {
	switch {
	case tlerrors.IsNotFound(err):
		notFound(w, "Not found", err.Error())
	case tlerrors.IsValidationError(err):
		badRequest(w, "Invalid request", err.Error())
	case tlerrors.Is(err, schedule.ErrStopped):
		unavailable(w, "Engine stopped", err.Error())
	case tlerrors.Is(err, context.Canceled), tlerrors.Is(err, context.DeadlineExceeded):
		unavailable(w, "Request cancelled", err.Error())
	default:
		internalError(w, err.Error())
	}
}
