package templates

import (
	"html/template"
	"io"

	"github.com/linesmerrill/dispatch-console/models"
)

// DeskView is one department column of the dashboard
type DeskView struct {
	Name  string
	Calls []models.Event
	Bolos []models.Event
	Units []models.UnitStatus
}

// DashboardView is everything the dashboard page renders
type DashboardView struct {
	Clock       string
	Banner      string
	Maintenance string
	SyncIn      string
	Police      DeskView
	Fire        DeskView
	Rigs        []models.Rig
}

var dashboard = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Dispatch Console</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; background-color: #0a0a0f; color: #e5e7eb; }
    header { display: flex; justify-content: space-between; padding: 12px 24px; background-color: #12121f; }
    .banner { padding: 8px 24px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); font-weight: 700; }
    main { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; padding: 24px; }
    section { background-color: #12121f; padding: 16px; }
    li { padding: 4px 0; border-bottom: 1px solid rgba(255,255,255,0.1); }
    .time { color: #6b7280; margin-right: 8px; }
  </style>
</head>
<body>
  <header>
    <strong>Dispatch Console</strong>
    <span id="clock">{{.Clock}} EST</span>
    <span>Sync in <span id="sync">{{.SyncIn}}</span></span>
  </header>
  <div class="banner" id="banner"{{if not .Banner}} hidden{{end}}>{{.Banner}}</div>
  <div class="banner" id="maintenance"{{if not .Maintenance}} hidden{{end}}>{{.Maintenance}}</div>
  <main>
    {{template "desk" .Police}}
    {{template "desk" .Fire}}
    <section>
      <h2>Responding Rigs</h2>
      <ul>{{range .Rigs}}<li><strong>{{.Name}}</strong>: {{.Criteria}}</li>{{end}}</ul>
    </section>
  </main>
  <script>
    const feed = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    feed.onmessage = (msg) => {
      const frame = JSON.parse(msg.data);
      if (frame.type === "refresh") { location.reload(); }
      if (frame.type === "banner") {
        for (const [id, text] of [["banner", frame.data.message], ["maintenance", frame.data.maintenance]]) {
          const el = document.getElementById(id);
          el.textContent = text || "";
          el.hidden = !text;
        }
      }
      if (frame.type === "countdowns") {
        const sync = frame.data.find((c) => c.key === "syncCountdownEnd");
        if (sync) {
          const s = Math.round(sync.remainingMs / 1000);
          document.getElementById("sync").textContent = Math.floor(s / 60) + ":" + String(s % 60).padStart(2, "0");
        }
      }
    };
  </script>
</body>
</html>
{{define "desk"}}
<section>
  <h2>{{.Name}} Calls</h2>
  <ol start="0">{{range .Calls}}<li><span class="time">{{.Timestamp}}</span>{{.Field "type"}} | {{.Field "address"}}{{with .Field "crossroads"}} | Cross: {{.}}{{end}} | {{.Field "units"}}{{.Field "rigs"}}</li>{{end}}</ol>
  {{if .Bolos}}<h2>BOLOs</h2>
  <ol start="0">{{range .Bolos}}<li><span class="time">{{.Timestamp}}</span>{{.Field "details"}}</li>{{end}}</ol>{{end}}
  <h2>{{.Name}} Units</h2>
  <ul>{{range .Units}}<li><strong>{{.CallSign}}</strong> {{.Status}}</li>{{end}}</ul>
</section>
{{end}}`))

// RenderDashboard writes the dashboard page for view
func RenderDashboard(w io.Writer, view DashboardView) error {
	return dashboard.Execute(w, view)
}
