// Package session owns the clinician's session lifecycle: exchanging
// credentials for a bearer token, fetching the identity behind it and
// reconciling a persisted token on start-up.
//
// Login, Register and Logout are not serialised against each other. Calling
// them concurrently is a caller error; the last writer wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/response"
	"github.com/rs/zerolog/log"
)

// API is the subset of the remote service the controller drives.
type API interface {
	Register(ctx context.Context, req apimodel.RegisterRequest) (*apimodel.User, error)
	ExchangeCredentials(ctx context.Context, username, password string) (*apimodel.AuthResponse, error)
	FetchIdentity(ctx context.Context) (*apimodel.User, error)
	UpdateDefaults(ctx context.Context, defaults apimodel.PersonalDefaults) error
	Predict(ctx context.Context, model apimodel.ModelType, input apimodel.PredictionInput) (*apimodel.PredictionResponse, error)
	History(ctx context.Context, skip, limit int) ([]apimodel.HistoryItem, error)
	HistoryDetail(ctx context.Context, id string) (*apimodel.HistoryDetail, error)
}

// CredentialStore holds the bearer token.
type CredentialStore interface {
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	IsPresent() bool
}

// ExpirySource emits an event whenever a response ends the session.
type ExpirySource interface {
	Subscribe(l response.Listener) (unsubscribe func())
}

// Controller orchestrates login, registration, bootstrap and logout, and holds
// the identity of the signed-in clinician for the lifetime of the process.
type Controller struct {
	api   API
	store CredentialStore

	mu       sync.RWMutex
	identity *apimodel.User

	unsubscribe func()
}

// NewController creates a Controller. When expiry is non-nil the held identity
// is dropped as soon as any call receives a 401.
func NewController(api API, store CredentialStore, expiry ExpirySource) (*Controller, error) {
	if api == nil {
		return nil, errors.New("session.NewController: api is required")
	}
	if store == nil {
		return nil, errors.New("session.NewController: credential store is required")
	}

	c := &Controller{api: api, store: store}
	if expiry != nil {
		c.unsubscribe = expiry.Subscribe(func(response.Event) {
			c.setIdentity(nil)
		})
	}
	return c, nil
}

// Close detaches the controller from session-expired events.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Login exchanges the credentials for a token, stores it and fetches the
// identity. Login is complete only once the identity has been retrieved; if
// that fails the token is discarded again.
func (c *Controller) Login(ctx context.Context, identifier, secret string) (*apimodel.User, error) {
	auth, err := c.api.ExchangeCredentials(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	if auth == nil || auth.AccessToken == "" {
		return nil, apierrors.NewFailure(apierrors.ErrService, 0, "Invalid response from server")
	}

	if err := c.store.Set(ctx, auth.AccessToken); err != nil {
		if !c.store.IsPresent() {
			return nil, fmt.Errorf("session.Login store token: %w", err)
		}
		log.Warn().Err(err).Msg("Token kept in memory only, persisting failed")
	}

	user, err := c.api.FetchIdentity(ctx)
	if err != nil {
		c.discard(ctx)
		return nil, err
	}
	c.setIdentity(user)
	log.Info().Str("user_id", user.ID).Msg("Signed in")
	return user, nil
}

// Register creates the account and then logs in with the same credentials;
// the service does not return a token on registration.
func (c *Controller) Register(ctx context.Context, req apimodel.RegisterRequest) (*apimodel.User, error) {
	if _, err := c.api.Register(ctx, req); err != nil {
		return nil, err
	}
	return c.Login(ctx, req.Email, req.Password)
}

// Bootstrap reconciles a persisted token with the service. Any failure means
// "not logged in": the token is cleared and (nil, nil) is returned.
func (c *Controller) Bootstrap(ctx context.Context) (*apimodel.User, error) {
	if !c.store.IsPresent() {
		c.setIdentity(nil)
		return nil, nil
	}

	user, err := c.api.FetchIdentity(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Stored session is no longer usable")
		c.discard(ctx)
		return nil, nil
	}
	c.setIdentity(user)
	return user, nil
}

// Logout is local and unconditional; the service is not called.
func (c *Controller) Logout(ctx context.Context) error {
	c.setIdentity(nil)
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// UpdateDefaults saves the personal defaults. The held identity is not
// refreshed; call Bootstrap afterwards to see the change.
func (c *Controller) UpdateDefaults(ctx context.Context, defaults apimodel.PersonalDefaults) error {
	return c.api.UpdateDefaults(ctx, defaults)
}

func (c *Controller) Predict(ctx context.Context, model apimodel.ModelType, input apimodel.PredictionInput) (*apimodel.PredictionResponse, error) {
	return c.api.Predict(ctx, model, input)
}

func (c *Controller) History(ctx context.Context, skip, limit int) ([]apimodel.HistoryItem, error) {
	return c.api.History(ctx, skip, limit)
}

func (c *Controller) HistoryDetail(ctx context.Context, id string) (*apimodel.HistoryDetail, error) {
	return c.api.HistoryDetail(ctx, id)
}

// Identity returns the signed-in user, or nil.
func (c *Controller) Identity() *apimodel.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Authenticated reports whether an identity is held. This is what the route
// guard keys off, not mere token presence.
func (c *Controller) Authenticated() bool {
	return c.Identity() != nil
}

func (c *Controller) setIdentity(user *apimodel.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = user
}

func (c *Controller) discard(ctx context.Context) {
	c.setIdentity(nil)
	if err := c.store.Clear(ctx); err != nil {
		log.Err(err).Msg("Failed to clear credential")
	}
}
