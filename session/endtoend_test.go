package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/neuroguard/api"
	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/internal/fakeapi"
	"github.com/jrsteele09/neuroguard/internal/metrics"
	"github.com/jrsteele09/neuroguard/response"
	"github.com/jrsteele09/neuroguard/routes"
	"github.com/jrsteele09/neuroguard/session"
	"github.com/jrsteele09/neuroguard/token"
	"github.com/jrsteele09/neuroguard/tokenstore"
	"github.com/stretchr/testify/require"
)

type process struct {
	store      *tokenstore.Store
	controller *session.Controller
	navigator  *routes.Navigator
}

// startProcess wires a client the way the CLI does, over a shared token folder.
func startProcess(t *testing.T, baseURL, folder string) *process {
	t.Helper()

	store, err := tokenstore.New(context.Background(), tokenstore.NewFileBackend(folder))
	require.NoError(t, err)
	normalizer := response.New(store)
	client := api.NewClient(api.NewTransport(baseURL, nil, store), normalizer, metrics.Nop{})

	controller, err := session.NewController(client, store, normalizer)
	require.NoError(t, err)
	t.Cleanup(controller.Close)

	navigator := routes.NewNavigator(controller.Authenticated, normalizer)
	t.Cleanup(navigator.Close)

	return &process{store: store, controller: controller, navigator: navigator}
}

func TestEndToEnd_RegisterReloadBootstrap(t *testing.T) {
	service := fakeapi.New(token.NewHMACSigner("e2e-secret", time.Hour), nil)
	srv := httptest.NewServer(service)
	defer srv.Close()
	folder := t.TempDir()
	ctx := context.Background()

	first := startProcess(t, srv.URL, folder)
	user, err := first.controller.Register(ctx, apimodel.RegisterRequest{
		Email: "new@clinic.id", Password: "longenough", FullName: "Dr New",
	})
	require.NoError(t, err)
	require.Equal(t, "new@clinic.id", user.Email)
	require.True(t, first.store.IsPresent())
	require.Equal(t, routes.ScreenProfileSetup, first.navigator.Navigate(routes.LandingAfterLogin(true)).Target)

	second := startProcess(t, srv.URL, folder)
	require.True(t, second.store.IsPresent(), "token persisted across processes")

	restored, err := second.controller.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	require.Equal(t, user.ID, restored.ID)

	d := second.navigator.Navigate(routes.ScreenDashboard)
	require.False(t, d.Redirected)
	d = second.navigator.Navigate(routes.ScreenLogin)
	require.True(t, d.Redirected)
	require.Equal(t, routes.ScreenDashboard, d.Target)
}

func TestEndToEnd_RevokedTokenForcesLogin(t *testing.T) {
	service := fakeapi.New(token.NewHMACSigner("e2e-secret", time.Hour), nil)
	srv := httptest.NewServer(service)
	defer srv.Close()
	ctx := context.Background()

	folder := t.TempDir()
	p := startProcess(t, srv.URL, folder)
	_, err := p.controller.Register(ctx, apimodel.RegisterRequest{
		Email: "dr@clinic.id", Password: "longenough", FullName: "Dr A",
	})
	require.NoError(t, err)
	p.navigator.Navigate(routes.ScreenHistory)
	require.Equal(t, routes.ScreenHistory, p.navigator.Current())

	raw, ok := p.store.Token()
	require.True(t, ok)
	service.Revoke(raw)

	_, err = p.controller.History(ctx, 0, apimodel.HistoryScreenLimit)
	require.ErrorIs(t, err, apierrors.ErrSessionExpired)
	require.False(t, p.controller.Authenticated())
	require.False(t, p.store.IsPresent())
	require.Equal(t, routes.ScreenLogin, p.navigator.Current())

	restarted := startProcess(t, srv.URL, folder)
	require.False(t, restarted.store.IsPresent(), "cleared token stays cleared on disk")
	user, err := restarted.controller.Bootstrap(ctx)
	require.NoError(t, err)
	require.Nil(t, user)
}
