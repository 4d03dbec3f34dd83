package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/eventlog"
	"github.com/linesmerrill/dispatch-console/models"
)

// Call exported for testing purposes
type Call struct {
	Console *console.Console
	Hub     Publisher
}

// CallsHandler returns the department's calls, newest first
func (c Call) CallsHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}
	desk, err := c.Console.Desk(dept)
	if err != nil {
		consoleError(w, "failed to get calls", err)
		return
	}

	calls := desk.Calls.Snapshot()
	writeJSON(w, http.StatusOK, models.ListResponse[models.Event]{Count: len(calls), Data: calls})
}

// CreateCallHandler logs a new call. Police and fire calls take different forms.
func (c Call) CreateCallHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}

	var event models.Event
	var err error
	switch dept {
	case console.Police:
		var form models.PoliceCallForm
		if !decodeBody(w, r, &form) {
			return
		}
		event, err = c.Console.SubmitPoliceCall(form)
	case console.Fire:
		var form models.FireCallForm
		if !decodeBody(w, r, &form) {
			return
		}
		event, err = c.Console.SubmitFireCall(form)
	}
	if err != nil {
		consoleError(w, "failed to create call", err)
		return
	}

	zap.S().Infow("call logged",
		"department", dept,
		"type", event.Field("type"),
		"timestamp", event.Timestamp())
	publishRefresh(c.Hub, dept)
	writeJSON(w, http.StatusCreated, event)
}

// DeleteCallHandler removes the call at a display index. Indexes outside
// the list are ignored.
func (c Call) DeleteCallHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}
	index, ok := indexVar(w, r)
	if !ok {
		return
	}

	removed, err := c.Console.RemoveCall(dept, index)
	if errors.Is(err, eventlog.ErrIndexOutOfRange) {
		zap.S().Debugw("ignoring call removal", "department", dept, "index", index)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		consoleError(w, "failed to delete call", err)
		return
	}

	publishRefresh(c.Hub, dept)
	writeJSON(w, http.StatusOK, removed)
}
