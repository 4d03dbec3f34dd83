package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/eventlog"
	"github.com/linesmerrill/dispatch-console/models"
)

// Bolo exported for testing purposes
type Bolo struct {
	Console *console.Console
	Hub     Publisher
}

// BolosHandler returns the police BOLOs, newest first
func (b Bolo) BolosHandler(w http.ResponseWriter, r *http.Request) {
	bolos := b.Console.Police.Bolos.Snapshot()
	writeJSON(w, http.StatusOK, models.ListResponse[models.Event]{Count: len(bolos), Data: bolos})
}

// CreateBoloHandler logs a new BOLO
func (b Bolo) CreateBoloHandler(w http.ResponseWriter, r *http.Request) {
	var form models.BoloForm
	if !decodeBody(w, r, &form) {
		return
	}

	event, err := b.Console.SubmitBolo(form)
	if err != nil {
		consoleError(w, "failed to create BOLO", err)
		return
	}

	publishRefresh(b.Hub, console.Police)
	writeJSON(w, http.StatusCreated, event)
}

// DeleteBoloHandler removes the BOLO at a display index
func (b Bolo) DeleteBoloHandler(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(w, r)
	if !ok {
		return
	}

	removed, err := b.Console.RemoveBolo(index)
	if errors.Is(err, eventlog.ErrIndexOutOfRange) {
		zap.S().Debugw("ignoring BOLO removal", "index", index)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		consoleError(w, "failed to delete BOLO", err)
		return
	}

	publishRefresh(b.Hub, console.Police)
	writeJSON(w, http.StatusOK, removed)
}
