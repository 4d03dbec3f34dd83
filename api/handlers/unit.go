package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/models"
)

// Unit exported for testing purposes
type Unit struct {
	Console *console.Console
	Hub     Publisher
}

// UnitsHandler returns the department's unit statuses in insertion order
func (u Unit) UnitsHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}
	units, err := u.Console.Units(dept)
	if err != nil {
		consoleError(w, "failed to get units", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse[models.UnitStatus]{Count: len(units), Data: units})
}

// SetUnitHandler updates or adds a unit status
func (u Unit) SetUnitHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}
	var form models.UnitForm
	if !decodeBody(w, r, &form) {
		return
	}

	status, err := u.Console.SetUnitStatus(dept, form)
	if err != nil {
		consoleError(w, "failed to set unit status", err)
		return
	}

	publishRefresh(u.Hub, dept)
	writeJSON(w, http.StatusOK, status)
}

// DeleteUnitHandler removes a unit by call sign. Unknown call signs are a no-op.
func (u Unit) DeleteUnitHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}

	if err := u.Console.RemoveUnit(dept, mux.Vars(r)["callSign"]); err != nil {
		consoleError(w, "failed to delete unit", err)
		return
	}

	publishRefresh(u.Hub, dept)
	w.WriteHeader(http.StatusNoContent)
}
