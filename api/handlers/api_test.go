package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/dispatch-console/api"
	"github.com/linesmerrill/dispatch-console/api/handlers"
	"github.com/linesmerrill/dispatch-console/config"
	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/models"
)

func newTestApp(t *testing.T) *handlers.App {
	t.Helper()
	conf, err := config.Parse()
	require.NoError(t, err)
	conf.Store = "memory"
	conf.AdminPasscode = "Administrator"
	conf.ClearPolicy = "defaults"

	a := &handlers.App{Config: *conf}
	require.NoError(t, a.Initialize())
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func executeRequest(a *handlers.App, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func adminToken(t *testing.T, a *handlers.App) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/admin/token", nil)
	req.SetBasicAuth(api.AdminUser, "Administrator")
	rr := executeRequest(a, req)
	checkResponseCode(t, http.StatusOK, rr.Code)

	var tok models.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tok))
	return tok.Token
}

func TestApp_HealthCheck(t *testing.T) {
	a := newTestApp(t)

	rr := executeRequest(a, httptest.NewRequest("GET", "/health", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"alive":true}`, rr.Body.String())
}

func TestApp_PoliceCallLifecycle(t *testing.T) {
	a := newTestApp(t)

	for _, typ := range []string{"Theft", "Assault"} {
		req := httptest.NewRequest("POST", "/api/v1/police/calls", jsonBody(t, models.PoliceCallForm{
			Type: typ, Address: "1 Main St", Units: "P-1",
		}))
		rr := executeRequest(a, req)
		checkResponseCode(t, http.StatusCreated, rr.Code)
	}

	rr := executeRequest(a, httptest.NewRequest("GET", "/api/v1/police/calls", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var list models.ListResponse[models.Event]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Assault", list.Data[0].Field("type"))

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/police/calls/7", nil))
	checkResponseCode(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 2, a.Console.Police.Calls.Len())

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/police/calls/1", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var removed models.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &removed))
	assert.Equal(t, "Theft", removed.Field("type"))

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/police/calls/first", nil))
	checkResponseCode(t, http.StatusBadRequest, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/ems/calls", nil))
	checkResponseCode(t, http.StatusNotFound, rr.Code)
}

func TestApp_FireCallValidation(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/fire/calls", jsonBody(t, models.FireCallForm{Type: "Brush Fire", Address: "Route 9"}))
	rr := executeRequest(a, req)
	checkResponseCode(t, http.StatusBadRequest, rr.Code)

	var got models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Please fill out Call Type, Address, Crossroads, and Rigs Responding.", got.Response.Message)
	assert.ElementsMatch(t, []string{"crossroads", "rigs"}, got.Response.Fields)
	assert.Equal(t, 0, a.Console.Fire.Calls.Len())

	rr = executeRequest(a, httptest.NewRequest("POST", "/api/v1/fire/calls", strings.NewReader("{")))
	checkResponseCode(t, http.StatusBadRequest, rr.Code)
}

func TestApp_Bolos(t *testing.T) {
	a := newTestApp(t)

	rr := executeRequest(a, httptest.NewRequest("POST", "/api/v1/police/bolos", jsonBody(t, models.BoloForm{Details: "red sedan"})))
	checkResponseCode(t, http.StatusCreated, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/police/bolos", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":1`)

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/police/bolos/-1", nil))
	checkResponseCode(t, http.StatusNoContent, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/police/bolos/0", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, a.Console.Police.Bolos.Len())
}

func TestApp_UnitsAndClear(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest("PUT", "/api/v1/fire/units", jsonBody(t, models.UnitForm{CallSign: "r-1", Status: "10-76 En Route"}))
	rr := executeRequest(a, req)
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"callSign":"R-1","status":"10-76 En Route"}`, rr.Body.String())

	req = httptest.NewRequest("PUT", "/api/v1/fire/units", jsonBody(t, models.UnitForm{CallSign: "R-1", Status: "Lunch"}))
	rr = executeRequest(a, req)
	checkResponseCode(t, http.StatusBadRequest, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("DELETE", "/api/v1/fire/units/e-1", nil))
	checkResponseCode(t, http.StatusNoContent, rr.Code)

	units, err := a.Console.Units(console.Fire)
	require.NoError(t, err)
	assert.Equal(t, []models.UnitStatus{
		{CallSign: "L-1", Status: models.DefaultStatus},
		{CallSign: "R-1", Status: "10-76 En Route"},
	}, units)

	rr = executeRequest(a, httptest.NewRequest("POST", "/api/v1/fire/clear", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var list models.ListResponse[models.UnitStatus]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, []models.UnitStatus{
		{CallSign: "E-1", Status: models.DefaultStatus},
		{CallSign: "L-1", Status: models.DefaultStatus},
	}, list.Data)
}

func TestApp_Reference(t *testing.T) {
	a := newTestApp(t)

	rr := executeRequest(a, httptest.NewRequest("GET", "/api/v1/reference/rigs", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":4`)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/reference/scripts/paging", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "(Page sound)")

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/reference/scripts/radio", nil))
	checkResponseCode(t, http.StatusNotFound, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/time", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var tr models.TimeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tr))
	assert.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}:\d{2} EST$`), tr.Time)
}

func TestApp_AdminRequiresToken(t *testing.T) {
	a := newTestApp(t)

	rr := executeRequest(a, httptest.NewRequest("POST", "/api/v1/admin/banner", jsonBody(t, models.BannerForm{Message: "hi"})))
	checkResponseCode(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("POST", "/api/v1/admin/token", nil)
	req.SetBasicAuth(api.AdminUser, "wrong")
	rr = executeRequest(a, req)
	checkResponseCode(t, http.StatusUnauthorized, rr.Code)
}

func TestApp_AdminBroadcastAndUpdate(t *testing.T) {
	a := newTestApp(t)
	token := adminToken(t, a)

	req := httptest.NewRequest("POST", "/api/v1/admin/banner", jsonBody(t, models.BannerForm{Message: "Shift change <b>now</b>"}))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := executeRequest(a, req)
	checkResponseCode(t, http.StatusOK, rr.Code)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/banner", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"message":"Shift change now"}`, rr.Body.String())

	req = httptest.NewRequest("POST", "/api/v1/admin/countdown", jsonBody(t, models.UpdateForm{Version: "v4.2", DurationMinutes: 10}))
	req.Header.Set("Authorization", "Bearer "+token)
	rr = executeRequest(a, req)
	checkResponseCode(t, http.StatusCreated, rr.Code)
	var update handlers.UpdateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &update))
	assert.Equal(t, "v4.2", update.Version)
	assert.True(t, strings.HasPrefix(update.Banner, "UPDATE: v4.2 in T-"))
	assert.Equal(t, "running", update.View.State)

	rr = executeRequest(a, httptest.NewRequest("GET", "/api/v1/countdowns", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"key":"maintenanceCountdownEnd"`)
	assert.Contains(t, rr.Body.String(), `"key":"syncCountdownEnd"`)

	req = httptest.NewRequest("DELETE", "/api/v1/admin/countdown", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = executeRequest(a, req)
	checkResponseCode(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, a.Admin.UpdateBanner())
}

func TestApp_DashboardAndMetrics(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Console.SubmitBolo(models.BoloForm{Details: "blue truck"})
	require.NoError(t, err)

	rr := executeRequest(a, httptest.NewRequest("GET", "/", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "blue truck")

	rr = executeRequest(a, httptest.NewRequest("GET", "/metrics", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "dispatch_bolos 1")
	assert.Contains(t, rr.Body.String(), `dispatch_units{department="police"} 2`)
}

func TestBolo_DeleteBoloHandler(t *testing.T) {
	c := console.New()
	_, err := c.SubmitBolo(models.BoloForm{Details: "stolen plates"})
	require.NoError(t, err)

	req, err := http.NewRequest("DELETE", "/api/v1/police/bolos/0", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"index": "0"})

	b := handlers.Bolo{Console: c}
	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(b.DeleteBoloHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.Contains(t, rr.Body.String(), "stolen plates")
}

func TestHub_PushesRefreshFrames(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return a.Hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/v1/police/clear", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame models.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, models.FrameRefresh, frame.Type)
	assert.Equal(t, "police", frame.Data)

	a.Scheduler.RunTick(context.Background())
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, models.FrameCountdowns, frame.Type)
}
