package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/api"
	"github.com/linesmerrill/dispatch-console/api/scheduler"
	"github.com/linesmerrill/dispatch-console/config"
	"github.com/linesmerrill/dispatch-console/console"
	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/models"
)

// SessionTTL is how long an admin bearer token stays valid
const SessionTTL = 12 * time.Hour

// App stores the router and the console state, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Console   *console.Console
	Admin     *console.Admin
	Sync      *countdown.Countdown
	Gate      *api.AdminGate
	Hub       *Hub
	Metrics   *api.Metrics
	Scheduler *scheduler.Scheduler

	closers []func(context.Context) error
	cancel  context.CancelFunc
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	call := Call{Console: a.Console, Hub: a.Hub}
	bolo := Bolo{Console: a.Console, Hub: a.Hub}
	unit := Unit{Console: a.Console, Hub: a.Hub}
	dept := Department{Console: a.Console, Hub: a.Hub}
	ref := Reference{Console: a.Console}
	admin := Admin{Admin: a.Admin, Sync: a.Sync, Hub: a.Hub}
	dash := Dashboard{Console: a.Console, Admin: a.Admin, Sync: a.Sync}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", a.Metrics.Handler())
	r.HandleFunc("/ws", a.Hub.ServeWS)
	r.HandleFunc("/", dash.DashboardHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiCreate.HandleFunc("/time", ref.TimeHandler).Methods("GET")
	apiCreate.HandleFunc("/reference/rigs", ref.RigsHandler).Methods("GET")
	apiCreate.HandleFunc("/reference/scripts/{name}", ref.ScriptHandler).Methods("GET")
	apiCreate.HandleFunc("/banner", admin.BannerHandler).Methods("GET")
	apiCreate.HandleFunc("/countdowns", admin.CountdownsHandler).Methods("GET")

	apiCreate.Handle("/admin/token", a.Gate.Middleware(http.HandlerFunc(a.Gate.CreateToken))).Methods("POST")
	apiCreate.Handle("/admin/token", a.Gate.Middleware(http.HandlerFunc(a.Gate.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/admin/banner", a.Gate.Middleware(http.HandlerFunc(admin.BroadcastHandler))).Methods("POST")
	apiCreate.Handle("/admin/countdown", a.Gate.Middleware(http.HandlerFunc(admin.StartUpdateHandler))).Methods("POST")
	apiCreate.Handle("/admin/countdown", a.Gate.Middleware(http.HandlerFunc(admin.CancelUpdateHandler))).Methods("DELETE")

	apiCreate.HandleFunc("/police/bolos", bolo.BolosHandler).Methods("GET")
	apiCreate.HandleFunc("/police/bolos", bolo.CreateBoloHandler).Methods("POST")
	apiCreate.HandleFunc("/police/bolos/{index}", bolo.DeleteBoloHandler).Methods("DELETE")

	apiCreate.HandleFunc("/{department}/calls", call.CallsHandler).Methods("GET")
	apiCreate.HandleFunc("/{department}/calls", call.CreateCallHandler).Methods("POST")
	apiCreate.HandleFunc("/{department}/calls/{index}", call.DeleteCallHandler).Methods("DELETE")
	apiCreate.HandleFunc("/{department}/units", unit.UnitsHandler).Methods("GET")
	apiCreate.HandleFunc("/{department}/units", unit.SetUnitHandler).Methods("PUT")
	apiCreate.HandleFunc("/{department}/units/{callSign}", unit.DeleteUnitHandler).Methods("DELETE")
	apiCreate.HandleFunc("/{department}/clear", dept.ClearHandler).Methods("POST")

	return r
}

// Initialize is invoked by main to open the countdown store and create a router
func (a *App) Initialize() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	store, err := a.openStore(ctx)
	if err != nil {
		zap.S().With(err).Error("failed to open countdown store")
		return err
	}
	zap.S().Infow("countdown store ready", "store", a.Config.Store)

	loc, err := a.Config.Location()
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}
	policy, err := console.ParseResetPolicy(a.Config.ClearPolicy)
	if err != nil {
		return err
	}
	a.Console = console.New(console.WithLocation(loc), console.WithResetPolicy(policy))

	grace := countdown.WithGrace(a.Config.CountdownGrace)
	a.Admin, err = console.NewAdmin(a.Config.AdminPasscode, store, console.WithCountdownOptions(grace))
	if err != nil {
		return err
	}
	a.Sync = countdown.New(countdown.SyncKey, store, grace)

	if err := a.resumeCountdowns(ctx); err != nil {
		return err
	}

	a.Gate = api.NewAdminGate(ctx, a.Admin, SessionTTL)
	a.Hub = NewHub()
	a.Metrics = api.NewMetrics()
	a.registerGauges()
	a.Scheduler = scheduler.NewScheduler(a.Admin, a.Sync, a.Config.SyncInterval, a.Hub, a.Metrics)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close releases the countdown store and disconnects viewers
func (a *App) Close(ctx context.Context) error {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) resumeCountdowns(ctx context.Context) error {
	found, err := a.Admin.Maintenance.Resume(ctx)
	if err != nil {
		return fmt.Errorf("resume maintenance countdown: %w", err)
	}
	if found {
		zap.S().Infow("resumed maintenance countdown", "target", a.Admin.Maintenance.Target())
	}

	target, err := a.Sync.Start(ctx, a.Config.SyncInterval)
	if err != nil {
		return fmt.Errorf("start sync countdown: %w", err)
	}
	zap.S().Infow("sync countdown running", "target", target)
	return nil
}

func (a *App) registerGauges() {
	for _, dept := range []console.Department{console.Police, console.Fire} {
		desk, _ := a.Console.Desk(dept)
		labels := prometheus.Labels{"department": string(dept)}
		a.Metrics.Gauge("calls", "Calls currently logged", labels, func() float64 {
			return float64(desk.Calls.Len())
		})
		a.Metrics.Gauge("units", "Units currently tracked", labels, func() float64 {
			return float64(desk.Units.Len())
		})
	}
	a.Metrics.Gauge("bolos", "BOLOs currently logged", nil, func() float64 {
		return float64(a.Console.Police.Bolos.Len())
	})
	a.Metrics.Gauge("viewers", "Connected websocket viewers", nil, func() float64 {
		return float64(a.Hub.Count())
	})
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
