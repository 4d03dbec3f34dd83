package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/linesmerrill/dispatch-console/config"
	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/countdown"
	templates "github.com/linesmerrill/dispatch-console/templates/html"
)

// Dashboard renders the console page
type Dashboard struct {
	Console *console.Console
	Admin   *console.Admin
	Sync    *countdown.Countdown
}

// DashboardHandler renders the current console state as HTML
func (d Dashboard) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	police, err := d.desk("Police", console.Police)
	if err != nil {
		config.ErrorStatus("failed to render dashboard", http.StatusInternalServerError, w, err)
		return
	}
	fire, err := d.desk("Fire", console.Fire)
	if err != nil {
		config.ErrorStatus("failed to render dashboard", http.StatusInternalServerError, w, err)
		return
	}

	banner, _ := d.Admin.Banner()
	sync := d.Sync.Snapshot()
	view := templates.DashboardView{
		Clock:       d.Console.Clock(),
		Banner:      banner,
		Maintenance: d.Admin.UpdateBanner(),
		SyncIn:      countdown.FormatClock(time.Duration(sync.RemainingMS) * time.Millisecond),
		Police:      police,
		Fire:        fire,
		Rigs:        console.FireRigs,
	}

	var buf bytes.Buffer
	if err := templates.RenderDashboard(&buf, view); err != nil {
		config.ErrorStatus("failed to render dashboard", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (d Dashboard) desk(name string, dept console.Department) (templates.DeskView, error) {
	desk, err := d.Console.Desk(dept)
	if err != nil {
		return templates.DeskView{}, err
	}
	units, err := d.Console.Units(dept)
	if err != nil {
		return templates.DeskView{}, err
	}
	v := templates.DeskView{Name: name, Calls: desk.Calls.Snapshot(), Units: units}
	if desk.Bolos != nil {
		v.Bolos = desk.Bolos.Snapshot()
	}
	return v, nil
}
