package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/models"
)

// Department exported for testing purposes
type Department struct {
	Console *console.Console
	Hub     Publisher
}

// ClearHandler empties the department's calls and BOLOs and resets its units
// according to the configured policy. It returns the resulting units.
func (d Department) ClearHandler(w http.ResponseWriter, r *http.Request) {
	dept, ok := departmentVar(w, r)
	if !ok {
		return
	}

	if err := d.Console.ClearAll(dept); err != nil {
		consoleError(w, "failed to clear department", err)
		return
	}
	zap.S().Infow("department cleared", "department", dept)

	units, err := d.Console.Units(dept)
	if err != nil {
		consoleError(w, "failed to get units", err)
		return
	}
	publishRefresh(d.Hub, dept)
	writeJSON(w, http.StatusOK, models.ListResponse[models.UnitStatus]{Count: len(units), Data: units})
}
