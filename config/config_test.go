package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/dispatch-console/models"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	conf, err := New()

	require.NoError(t, err)
	assert.NotEmpty(t, conf)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestParseDefaults(t *testing.T) {
	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, "memory", conf.Store)
	assert.Equal(t, "Administrator", conf.AdminPasscode)
	assert.Equal(t, "defaults", conf.ClearPolicy)
	assert.Equal(t, 5*time.Second, conf.CountdownGrace)
	assert.Equal(t, 15*time.Minute, conf.SyncInterval)

	loc, err := conf.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestParseRejectsMongoWithoutURI(t *testing.T) {
	t.Setenv("STORE", "mongo")
	t.Setenv("DB_URI", "")

	_, err := Parse()
	assert.ErrorContains(t, err, "validate config")
}

func TestParseRejectsUnknownClearPolicy(t *testing.T) {
	t.Setenv("CLEAR_POLICY", "sometimes")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "soon")

	_, err := Parse()
	assert.ErrorContains(t, err, "parse env")
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var got models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "error it borked", got.Response.Message)
	assert.Equal(t, "bad request", got.Response.Error)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}
