package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/models"
)

// Admin exported for testing purposes
type Admin struct {
	Admin *console.Admin
	Sync  *countdown.Countdown
	Hub   Publisher
}

// UpdateResponse is returned when a maintenance countdown starts
type UpdateResponse struct {
	Version string         `json:"version"`
	Banner  string         `json:"banner"`
	View    countdown.View `json:"countdown"`
}

// BannerHandler returns the broadcast message and the maintenance banner
func (a Admin) BannerHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.banner())
}

// CountdownsHandler returns both countdowns
func (a Admin) CountdownsHandler(w http.ResponseWriter, r *http.Request) {
	views := []countdown.View{a.Admin.Maintenance.Snapshot(), a.Sync.Snapshot()}
	writeJSON(w, http.StatusOK, models.ListResponse[countdown.View]{Count: len(views), Data: views})
}

// BroadcastHandler replaces the broadcast banner
func (a Admin) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var form models.BannerForm
	if !decodeBody(w, r, &form) {
		return
	}
	if err := a.Admin.Broadcast(form); err != nil {
		consoleError(w, "failed to broadcast", err)
		return
	}

	zap.S().Infow("broadcast banner updated")
	b := a.banner()
	a.publish(b)
	writeJSON(w, http.StatusOK, b)
}

// StartUpdateHandler starts a maintenance countdown, superseding any running one
func (a Admin) StartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var form models.UpdateForm
	if !decodeBody(w, r, &form) {
		return
	}

	target, err := a.Admin.StartUpdate(r.Context(), form)
	if err != nil {
		consoleError(w, "failed to start update countdown", err)
		return
	}

	zap.S().Infow("update countdown started",
		"version", a.Admin.Version(),
		"target", target)
	a.publish(a.banner())
	writeJSON(w, http.StatusCreated, UpdateResponse{
		Version: a.Admin.Version(),
		Banner:  a.Admin.UpdateBanner(),
		View:    a.Admin.Maintenance.Snapshot(),
	})
}

// CancelUpdateHandler stops the maintenance countdown
func (a Admin) CancelUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Admin.CancelUpdate(r.Context()); err != nil {
		consoleError(w, "failed to cancel update countdown", err)
		return
	}

	zap.S().Infow("update countdown cancelled")
	a.publish(a.banner())
	w.WriteHeader(http.StatusNoContent)
}

func (a Admin) banner() models.BannerResponse {
	msg, _ := a.Admin.Banner()
	return models.BannerResponse{Message: msg, Maintenance: a.Admin.UpdateBanner()}
}

func (a Admin) publish(b models.BannerResponse) {
	if a.Hub != nil {
		a.Hub.Publish(models.Frame{Type: models.FrameBanner, Data: b})
	}
}
