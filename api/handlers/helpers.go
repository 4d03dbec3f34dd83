package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/dispatch-console/config"
	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/models"
)

// Publisher receives frames for live viewers
type Publisher interface {
	Publish(frame models.Frame)
}

func publishRefresh(p Publisher, dept console.Department) {
	if p != nil {
		p.Publish(models.Frame{Type: models.FrameRefresh, Data: dept})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	return true
}

func departmentVar(w http.ResponseWriter, r *http.Request) (console.Department, bool) {
	dept, err := console.ParseDepartment(mux.Vars(r)["department"])
	if err != nil {
		config.ErrorStatus("unknown department", http.StatusNotFound, w, err)
		return "", false
	}
	return dept, true
}

func indexVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		config.ErrorStatus("invalid index", http.StatusBadRequest, w, err)
		return 0, false
	}
	return i, true
}

// consoleError maps console failures onto HTTP statuses
func consoleError(w http.ResponseWriter, message string, err error) {
	var verr *console.ValidationError
	var unknown *console.UnknownDepartmentError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ErrorMessageResponse{
			Response: models.MessageError{Message: verr.Message, Error: message, Fields: verr.Fields},
		})
	case errors.As(err, &unknown):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}
