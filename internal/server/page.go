package server

// pageTemplate is the host page. Without a timeline the chart section is left
// out entirely.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1em 2em; }
#timeline-row { display: flex; gap: 1em; align-items: flex-start; }
#timeline svg { user-select: none; }
.legend-entry { margin: 0.2em 0; }
.load-error { color: #a00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}
<p class="load-error">Timeline unavailable: {{.Error}}</p>
{{else}}
<div id="timeline-row">
<div id="timeline">{{.SVG}}</div>
<div id="legend">{{.Legend}}</div>
</div>
<div id="events">{{.Host}}</div>
<script>{{.Script}}</script>
{{end}}
</body>
</html>
`

// pageScript forwards pointer input to the interaction API and applies the
// scenes it gets back or that are pushed over the socket.
const pageScript = `(function () {
  var timeline = document.getElementById("timeline");
  var legend = document.getElementById("legend");
  var events = document.getElementById("events");

  function apply(s) {
    timeline.innerHTML = s.svg;
    legend.innerHTML = s.legend;
    events.innerHTML = s.host;
  }

  function post(path, body) {
    return fetch(path, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body || {})
    }).then(function (r) { return r.json(); }).then(function (r) {
      if (!r.data) { return; }
      apply(r.data);
      if (r.data.navigate) { window.location.href = r.data.navigate; }
    });
  }

  function point(e) {
    var b = timeline.firstElementChild.getBoundingClientRect();
    return { x: e.clientX - b.left, y: e.clientY - b.top };
  }

  var drag = null, moved = false;
  timeline.addEventListener("mousedown", function (e) { drag = point(e); moved = false; });
  window.addEventListener("mouseup", function () { drag = null; });
  timeline.addEventListener("mousemove", function (e) {
    var p = point(e);
    if (drag) {
      var dx = p.x - drag.x, dy = p.y - drag.y;
      if (dx || dy) { moved = true; drag = p; post("/api/pan", { dx: dx, dy: dy }); }
      return;
    }
    post("/api/pointer", p);
  });
  timeline.addEventListener("mouseleave", function () { post("/api/leave"); });
  timeline.addEventListener("wheel", function (e) {
    e.preventDefault();
    var p = point(e);
    post("/api/wheel", { x: p.x, y: p.y, delta_y: e.deltaY });
  }, { passive: false });
  timeline.addEventListener("dblclick", function () { post("/api/reset"); });
  timeline.addEventListener("click", function (e) { if (!moved) { post("/api/click", point(e)); } });
  legend.addEventListener("click", function (e) {
    var entry = e.target.closest("[data-group]");
    if (entry) { post("/api/legend/" + encodeURIComponent(entry.getAttribute("data-group"))); }
  });

  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "scene") { apply(msg.data); }
  };
})();
`
