package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelinechart/internal/logging"
	"timelinechart/pkg/chart"
	"timelinechart/pkg/ingest"
)

func year(y int) float64 {
	return float64(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
}

func testData() *ingest.Data {
	return &ingest.Data{
		TypeNames: map[string]string{"x": "Committee", "y": "Board"},
		TypeOrder: []string{"x", "y"},
		Events: []ingest.Event{
			{Group: "x", ID: "a", Name: "Alpha", Link: "https://example.com/a", Time: year(2001)},
			{Group: "y", ID: "b", Name: "Beta", Link: "https://example.com/b", Time: year(2005), EndTime: ingest.Float(year(2007))},
			{Group: "x", ID: "c", Name: "Gamma", Link: "javascript:alert(1)", Time: year(2010)},
		},
	}
}

type fixture struct {
	server *Server
	http   *httptest.Server
}

func newFixture(t *testing.T, data *ingest.Data, loadErr error, tweak func(*chart.Config)) *fixture {
	t.Helper()
	cfg := chart.DefaultConfig()
	if tweak != nil {
		tweak(&cfg)
	}
	tl := logging.NewTestLogger(t)
	s, err := New(DefaultConfig(), cfg, data, loadErr, &tl.Logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return &fixture{server: s, http: ts}
}

func (f *fixture) post(t *testing.T, path string, body any) (int, Response, Snapshot) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = strings.NewReader(string(raw))
	}
	resp, err := http.Post(f.http.URL+path, "application/json", payload)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data  *Snapshot `json:"data"`
		Error *Error    `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var snap Snapshot
	if env.Data != nil {
		snap = *env.Data
	}
	return resp.StatusCode, Response{Error: env.Error}, snap
}

func (f *fixture) state(t *testing.T) Snapshot {
	t.Helper()
	status, body := f.get(t, "/api/state")
	require.Equal(t, http.StatusOK, status)
	var env struct {
		Data Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return env.Data
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(f.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// markCenter returns the screen position of the mark for event id.
func (f *fixture) markCenter(t *testing.T, id string) point {
	t.Helper()
	var p point
	found := false
	err := f.server.loop.Do(context.Background(), func() {
		c := f.server.chart
		for _, k := range c.MarkKeys() {
			if strings.Split(k, "|")[1] != id {
				continue
			}
			n, _ := c.Mark(k)
			cx := n.NumAttr("x") + n.NumAttr("width")/2
			cy := n.NumAttr("y") + n.NumAttr("height")/2
			p.X, p.Y = c.Transform().Apply(cx, cy)
			found = true
		}
	})
	require.NoError(t, err)
	require.True(t, found, "no mark for %s", id)
	return p
}

func TestPageRendersChart(t *testing.T) {
	f := newFixture(t, testData(), nil, nil)

	status, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `id="timeline-row"`)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `class="legend-entry"`)
	assert.Contains(t, body, "Committee")
	assert.Contains(t, body, `class="group_header"`)
	assert.Contains(t, body, "new WebSocket")

	status, body = f.get(t, "/chart.svg")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "<?xml"))
}

func TestPageWithoutTimeline(t *testing.T) {
	f := newFixture(t, nil, errors.New("fetching timeline.json: 404"), nil)

	status, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, `id="timeline-row"`)
	assert.Contains(t, body, "Timeline unavailable")

	status, resp, _ := f.post(t, "/api/pan", panRequest{DX: 10})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)

	status, _ = f.get(t, "/chart.svg")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestLegendClick(t *testing.T) {
	f := newFixture(t, testData(), nil, nil)

	status, _, snap := f.post(t, "/api/legend/x", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "isolate-default", snap.Mode)
	assert.Equal(t, map[string]bool{"x": true, "y": false}, snap.Visibility)
	assert.Contains(t, snap.Host, `style="display: none"`)

	_, _, snap = f.post(t, "/api/legend/y", nil)
	assert.Equal(t, map[string]bool{"x": true, "y": true}, snap.Visibility)

	status, resp, _ := f.post(t, "/api/legend/zzz", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, map[string]bool{"x": true, "y": true}, f.state(t).Visibility)
}

func TestZoomPanAndReset(t *testing.T) {
	f := newFixture(t, testData(), nil, nil)

	initial := f.state(t)
	require.Greater(t, initial.Scale, 0.5)
	require.Less(t, initial.Scale, 1.0, "content is fitted with a margin")

	status, _, snap := f.post(t, "/api/zoom", zoomRequest{X: 100, Y: 100, Factor: 2})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 2*initial.Scale, snap.Scale, 1e-9)

	_, _, snap = f.post(t, "/api/wheel", wheelRequest{X: 100, Y: 100, DeltaY: 5000})
	assert.Equal(t, 0.5, snap.Scale, "wheel zoom is clamped")

	_, _, snap = f.post(t, "/api/pan", panRequest{DX: 30, DY: 0})
	assert.NotEqual(t, initial.Transform, snap.Transform)

	_, _, snap = f.post(t, "/api/reset", nil)
	assert.Equal(t, initial.Transform, snap.Transform)

	status, resp, _ := f.post(t, "/api/zoom", "not an object")
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)

	status, resp, _ = f.post(t, "/api/zoom", zoomRequest{X: 100, Y: 100, Factor: -1})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "factor")
}

func TestPointerAndClick(t *testing.T) {
	f := newFixture(t, testData(), nil, nil)
	p := f.markCenter(t, "a")

	_, _, snap := f.post(t, "/api/pointer", p)
	assert.NotEmpty(t, snap.Hovered)
	assert.Contains(t, snap.SVG, "Alpha")

	_, _, snap = f.post(t, "/api/click", p)
	assert.Equal(t, "https://example.com/a", snap.Navigate)

	_, _, snap = f.post(t, "/api/click", f.markCenter(t, "c"))
	assert.Empty(t, snap.Navigate, "script links are not forwarded")

	_, _, snap = f.post(t, "/api/click", point{X: -500, Y: -500})
	assert.Empty(t, snap.Navigate)
}

func TestHoverDismissalIsPushed(t *testing.T) {
	f := newFixture(t, testData(), nil, func(cfg *chart.Config) {
		cfg.Hover.DismissDelay = 20 * time.Millisecond
	})

	wsURL := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.server.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	p := f.markCenter(t, "a")
	f.post(t, "/api/pointer", p)
	f.post(t, "/api/leave", nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg struct {
			Type string   `json:"type"`
			Data Snapshot `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "scene", msg.Type)
		if strings.Contains(msg.Data.SVG, `class="label" opacity="0"`) {
			assert.Empty(t, msg.Data.Hovered)
			return
		}
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testData(), nil, nil)
	status, body := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"timeline":true`)
}
