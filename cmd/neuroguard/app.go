package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/neuroguard/api"
	"github.com/jrsteele09/neuroguard/internal/config"
	"github.com/jrsteele09/neuroguard/internal/metrics"
	"github.com/jrsteele09/neuroguard/response"
	"github.com/jrsteele09/neuroguard/routes"
	"github.com/jrsteele09/neuroguard/session"
	"github.com/jrsteele09/neuroguard/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// App is one CLI invocation: a restored session plus the screen it is on.
type App struct {
	cfg        config.Config
	store      *tokenstore.Store
	controller *session.Controller
	navigator  *routes.Navigator
	normalizer *response.Normalizer
	metrics    *prometheus.Registry

	in  *bufio.Reader
	out io.Writer
	// terminalFD is the input's descriptor when it is a terminal, else -1.
	terminalFD int

	closers []func()
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*App, error) {
	a := &App{cfg: cfg, in: bufio.NewReader(in), out: out, terminalFD: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.terminalFD = int(f.Fd())
	}

	backend, err := a.newBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.store, err = tokenstore.New(ctx, backend)
	if err != nil {
		a.Close()
		return nil, err
	}

	normalizer := response.New(a.store)
	a.normalizer = normalizer
	a.metrics = prometheus.NewRegistry()
	client := api.NewClient(
		api.NewTransport(cfg.GetAPIURL(), &http.Client{Timeout: cfg.GetHTTPTimeout()}, a.store),
		normalizer,
		metrics.NewCollector(a.metrics),
	)

	a.controller, err = session.NewController(client, a.store, normalizer)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.controller.Close)

	a.navigator = routes.NewNavigator(a.controller.Authenticated, normalizer)
	a.closers = append(a.closers, a.navigator.Close)

	a.closers = append(a.closers, normalizer.Subscribe(func(response.Event) {
		fmt.Fprintln(a.out, "Your session has expired. Please sign in again with `neuroguard login`.")
	}))

	if _, err := a.controller.Bootstrap(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) newBackend(ctx context.Context) (tokenstore.Backend, error) {
	switch a.cfg.GetTokenBackend() {
	case config.TokenBackendRedis:
		client, err := tokenstore.NewRedisClient(ctx, a.cfg.GetRedisURL())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil && err != redis.ErrClosed {
				log.Err(err).Msg("Failed to close redis client")
			}
		})
		return tokenstore.NewRedisBackend(client, a.cfg.GetRedisKey()), nil
	default:
		return tokenstore.NewFileBackend(a.cfg.GetDataFolder()), nil
	}
}

// Close releases resources in reverse order. Safe to call twice.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.logMetrics()
}

func (a *App) logMetrics() {
	if a.metrics == nil {
		return
	}
	families, err := a.metrics.Gather()
	if err != nil {
		log.Err(err).Msg("Failed to gather metrics")
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			ev := log.Debug().Str("metric", mf.GetName())
			for _, l := range m.GetLabel() {
				ev = ev.Str(l.GetName(), l.GetValue())
			}
			if c := m.GetCounter(); c != nil {
				ev = ev.Float64("value", c.GetValue())
			}
			if h := m.GetHistogram(); h != nil {
				ev = ev.Uint64("count", h.GetSampleCount()).Float64("sum", h.GetSampleSum())
			}
			ev.Msg("Client metric")
		}
	}
	a.metrics = nil
}

// enter guards navigation to screen. It returns false when the guard sent
// the user elsewhere, after telling them why.
func (a *App) enter(screen string) bool {
	d := a.navigator.Navigate(screen)
	if !d.Redirected {
		return true
	}
	switch d.Target {
	case routes.ScreenLogin:
		fmt.Fprintln(a.out, "You are not signed in. Run `neuroguard login` or `neuroguard register`.")
	case routes.ScreenDashboard:
		if u := a.controller.Identity(); u != nil {
			fmt.Fprintf(a.out, "Already signed in as %s. Run `neuroguard logout` first.\n", u.Email)
		}
	}
	return false
}

// prompt reads one line from the input.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a line without echo when the input is a terminal and
// falls back to a plain line read for piped input.
func (a *App) promptSecret(label string) (string, error) {
	if a.terminalFD < 0 {
		return a.prompt(label)
	}
	fmt.Fprint(a.out, label)
	secret, err := term.ReadPassword(a.terminalFD)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return string(secret), nil
}

func (a *App) banner() {
	fmt.Fprintln(a.out, figure.NewFigure(a.cfg.GetAppName(), "cybermedium", true).String())
}
