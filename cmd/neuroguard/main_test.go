package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/neuroguard/internal/config"
	"github.com/jrsteele09/neuroguard/internal/fakeapi"
	"github.com/jrsteele09/neuroguard/token"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	apiURL   string
	folder   string
	backend  config.TokenBackend
	redisURL string
}

func (testConfig) GetAppName() string                     { return "NeuroGuard" }
func (testConfig) GetLogLevel() string                    { return "error" }
func (testConfig) GetEnv() string                         { return "TEST" }
func (c testConfig) GetAPIURL() string                    { return c.apiURL }
func (testConfig) GetHTTPTimeout() time.Duration          { return 5 * time.Second }
func (c testConfig) GetDataFolder() string                { return c.folder }
func (c testConfig) GetTokenBackend() config.TokenBackend { return c.backend }
func (c testConfig) GetRedisURL() string                  { return c.redisURL }
func (testConfig) GetRedisKey() string                    { return "neuroguard:test" }
func (testConfig) GetFakeServicePort() string             { return ":0" }
func (testConfig) GetFakeServiceSecret() string           { return "test" }

// run executes one CLI invocation as a fresh process would.
func run(t *testing.T, cfg config.Config, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app, err := newApp(context.Background(), cfg, strings.NewReader(""), &out)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.dispatch(context.Background(), args[0], args[1:]))
	return out.String()
}

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fakeapi.New(token.NewHMACSigner("cli-secret", time.Hour), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestCLI_Flow(t *testing.T) {
	srv := newService(t)
	cfg := testConfig{apiURL: srv.URL, folder: t.TempDir(), backend: config.TokenBackendFile}

	out := run(t, cfg, "dashboard")
	require.Contains(t, out, "You are not signed in")

	out = run(t, cfg, "register", "--email=dr@clinic.id", "--name=Dr Siti", "--password=longenough")
	require.Contains(t, out, "Account created. Welcome, Dr Siti.")
	require.Contains(t, out, "profile set")

	out = run(t, cfg, "login", "--email=dr@clinic.id", "--password=longenough")
	require.Contains(t, out, "Already signed in as dr@clinic.id")

	out = run(t, cfg, "assess", "--symptoms=dizziness")
	require.Contains(t, out, "Please set up your profile defaults")

	out = run(t, cfg, "profile", "set", "--age=58", "--hbp=1")
	require.Contains(t, out, "Personal defaults saved.")

	out = run(t, cfg, "profile")
	require.Contains(t, out, "58")

	out = run(t, cfg, "assess", "--symptoms=dizziness", "--risk=50")
	require.Contains(t, out, "At Risk")
	require.Contains(t, out, "Risk probability:")
	require.Contains(t, out, "Halodoc")

	out = run(t, cfg, "history")
	require.Contains(t, out, "random_forest")

	out = run(t, cfg, "dashboard")
	require.Contains(t, out, "Total assessments: 1")
	require.Contains(t, out, "Profile status:    Optimized")
	require.Contains(t, out, "Test 1")

	out = run(t, cfg, "status")
	require.Contains(t, out, "Signed in as Dr Siti <dr@clinic.id>")
	require.Contains(t, out, "Token expires:")

	out = run(t, cfg, "logout")
	require.Contains(t, out, "Signed out.")

	out = run(t, cfg, "history")
	require.Contains(t, out, "You are not signed in")
}

func TestCLI_RedisBackend(t *testing.T) {
	srv := newService(t)
	mr := miniredis.RunT(t)
	cfg := testConfig{apiURL: srv.URL, backend: config.TokenBackendRedis, redisURL: "redis://" + mr.Addr()}

	run(t, cfg, "register", "--email=dr@clinic.id", "--name=Dr Siti", "--password=longenough")
	stored, err := mr.Get("neuroguard:test")
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	out := run(t, cfg, "status")
	require.Contains(t, out, "Signed in as Dr Siti")
}

func TestCLI_LoginPromptsForPassword(t *testing.T) {
	srv := newService(t)
	cfg := testConfig{apiURL: srv.URL, folder: t.TempDir(), backend: config.TokenBackendFile}
	run(t, cfg, "register", "--email=dr@clinic.id", "--name=Dr Siti", "--password=longenough")
	run(t, cfg, "logout")

	var out bytes.Buffer
	app, err := newApp(context.Background(), cfg, strings.NewReader("longenough\n"), &out)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.dispatch(context.Background(), "login", []string{"--email=dr@clinic.id"}))
	require.Contains(t, out.String(), "Password: ")
	require.Contains(t, out.String(), "Welcome back, Dr Siti.")
}

func TestCLI_WrongPassword(t *testing.T) {
	srv := newService(t)
	cfg := testConfig{apiURL: srv.URL, folder: t.TempDir(), backend: config.TokenBackendFile}
	run(t, cfg, "register", "--email=dr@clinic.id", "--name=Dr Siti", "--password=longenough")
	run(t, cfg, "logout")

	var out bytes.Buffer
	app, err := newApp(context.Background(), cfg, strings.NewReader(""), &out)
	require.NoError(t, err)
	defer app.Close()

	err = app.dispatch(context.Background(), "login", []string{"--email=dr@clinic.id", "--password=wrong-one"})
	require.EqualError(t, err, "Session expired")
}

func TestCLI_PipedPasswordIsReadAsLine(t *testing.T) {
	srv := newService(t)
	cfg := testConfig{apiURL: srv.URL, folder: t.TempDir(), backend: config.TokenBackendFile}
	run(t, cfg, "register", "--email=dr@clinic.id", "--name=Dr Siti", "--password=longenough")
	run(t, cfg, "logout")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_, err = w.WriteString("longenough\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	app, err := newApp(context.Background(), cfg, r, &out)
	require.NoError(t, err)
	defer app.Close()
	require.Equal(t, -1, app.terminalFD)

	require.NoError(t, app.dispatch(context.Background(), "login", []string{"--email=dr@clinic.id"}))
	require.Contains(t, out.String(), "Welcome back, Dr Siti.")
}

func TestCLI_CloseDetachesExpiryMessage(t *testing.T) {
	srv := newService(t)
	cfg := testConfig{apiURL: srv.URL, folder: t.TempDir(), backend: config.TokenBackendFile}

	var out bytes.Buffer
	app, err := newApp(context.Background(), cfg, strings.NewReader(""), &out)
	require.NoError(t, err)

	expire := func() {
		_ = app.normalizer.NormalizeBody(context.Background(), nil, http.StatusUnauthorized, "Unauthorized", http.Header{}, nil, nil)
	}
	expire()
	require.Contains(t, out.String(), "Your session has expired")

	app.Close()
	out.Reset()
	expire()
	require.NotContains(t, out.String(), "Your session has expired")
}
