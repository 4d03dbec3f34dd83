package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/models"
)

// AdminUser is the basic auth user name of the administrator
const AdminUser = "admin"

// PasscodeChecker validates the admin passcode
type PasscodeChecker interface {
	CheckPasscode(passcode string) bool
}

// AdminGate guards the admin routes. A passcode exchanged over basic auth
// yields a bearer token that later requests present.
type AdminGate struct {
	Passcodes     PasscodeChecker
	authenticator auth.Authenticator
	cache         store.Cache
}

// NewAdminGate sets up the go-guardian strategies for the admin routes
func NewAdminGate(ctx context.Context, passcodes PasscodeChecker, sessionTTL time.Duration) *AdminGate {
	g := &AdminGate{Passcodes: passcodes}
	g.authenticator = auth.New()
	g.cache = store.NewFIFO(ctx, sessionTTL)
	basicStrategy := basic.New(g.ValidateUser, g.cache)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, g.cache)

	g.authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	g.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return g
}

// Middleware rejects requests that carry neither the passcode nor a valid token
func (g *AdminGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		next.ServeHTTP(w, r)
	})
}

// CreateToken returns a bearer token for the admin session
func (g *AdminGate) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	user, _, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	token := uuid.New().String()
	authUser := auth.NewDefaultUser(user, "1", nil, nil)
	tokenStrategy := g.authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, authUser, r)

	responseBody, err := json.Marshal(models.TokenResponse{Token: token})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Write(responseBody)
}

// ValidateUser checks the basic auth credentials against the admin passcode
func (g *AdminGate) ValidateUser(ctx context.Context, r *http.Request, userName, password string) (auth.Info, error) {
	userHash := sha256.Sum256([]byte(userName))
	expectedUserHash := sha256.Sum256([]byte(AdminUser))
	userMatch := subtle.ConstantTimeCompare(userHash[:], expectedUserHash[:]) == 1

	if !g.Passcodes.CheckPasscode(password) {
		return nil, fmt.Errorf("incorrect passcode")
	}
	if userMatch {
		return auth.NewDefaultUser(userName, "1", nil, nil), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

// RevokeToken revokes a token
func (g *AdminGate) RevokeToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	reqToken := r.Header.Get("Authorization")
	splitToken := strings.Split(reqToken, "Bearer ")
	if len(splitToken) != 2 {
		http.Error(w, "bearer token required", http.StatusBadRequest)
		return
	}
	reqToken = splitToken[1]

	tokenStrategy := g.authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	body := fmt.Sprintf(`{"revoked token": "%s"}`, reqToken)
	w.Write([]byte(body))
}
