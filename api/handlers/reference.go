package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/dispatch-console/config"
	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/models"
)

// Reference serves the static dispatcher aids and the console clock
type Reference struct {
	Console *console.Console
}

// RigsHandler returns the fire rig criteria
func (ref Reference) RigsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ListResponse[models.Rig]{Count: len(console.FireRigs), Data: console.FireRigs})
}

// ScriptHandler returns a dispatcher script by name
func (ref Reference) ScriptHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	script, ok := console.LookupScript(name)
	if !ok {
		config.ErrorStatus("script not found", http.StatusNotFound, w, fmt.Errorf("no script named %q", name))
		return
	}
	writeJSON(w, http.StatusOK, script)
}

// TimeHandler returns the console clock
func (ref Reference) TimeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.TimeResponse{Time: ref.Console.Clock() + " EST"})
}
