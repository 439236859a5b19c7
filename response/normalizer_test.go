package response_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/response"
	"github.com/jrsteele09/neuroguard/tokenstore"
	"github.com/jrsteele09/neuroguard/tokenstore/backendfake"
	"github.com/stretchr/testify/require"
)

func newResponse(status int, contentType, body string) *http.Response {
	rec := httptest.NewRecorder()
	if contentType != "" {
		rec.Header().Set("Content-Type", contentType)
	}
	rec.WriteHeader(status)
	_, _ = rec.WriteString(body)
	return rec.Result()
}

func newStore(t *testing.T) *tokenstore.Store {
	t.Helper()
	store, err := tokenstore.New(context.Background(), backendfake.NewMemoryBackendWithToken("tok"))
	require.NoError(t, err)
	return store
}

func requireFailure(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	require.Equal(t, message, err.Error())
}

func TestNormalize_UnauthorizedAlwaysExpires(t *testing.T) {
	cases := map[string]*http.Response{
		"json body":  newResponse(http.StatusUnauthorized, "application/json", `{"id":"should-not-decode"}`),
		"html body":  newResponse(http.StatusUnauthorized, "text/html", "<html>nope</html>"),
		"empty body": newResponse(http.StatusUnauthorized, "", ""),
	}

	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			n := response.New(store)

			var events int
			n.Subscribe(func(response.Event) { events++ })

			var target struct {
				ID string `json:"id"`
			}
			err := n.Normalize(context.Background(), resp, &target)

			requireFailure(t, err, apierrors.ErrSessionExpired, response.SessionExpiredMessage)
			require.Empty(t, target.ID)
			require.False(t, store.IsPresent())
			require.Equal(t, 1, events)
		})
	}
}

func TestNormalize_DecodesJSONSuccess(t *testing.T) {
	n := response.New(newStore(t))

	var target struct {
		Email string `json:"email"`
	}
	err := n.Normalize(context.Background(), newResponse(http.StatusOK, "application/json; charset=utf-8", `{"email":"a@b.com"}`), &target)

	require.NoError(t, err)
	require.Equal(t, "a@b.com", target.Email)
}

func TestNormalize_InvalidJSONSuccess(t *testing.T) {
	n := response.New(newStore(t))

	var target map[string]any
	err := n.Normalize(context.Background(), newResponse(http.StatusOK, "application/json", `{"email":`), &target)

	requireFailure(t, err, apierrors.ErrService, "Invalid response from server")
}

func TestNormalize_NonJSONSuccessIsEmpty(t *testing.T) {
	n := response.New(newStore(t))

	target := struct{ ID string }{}
	err := n.Normalize(context.Background(), newResponse(http.StatusOK, "text/plain", "ok"), &target)

	require.NoError(t, err)
	require.Empty(t, target.ID)
}

func TestNormalize_DetailList(t *testing.T) {
	n := response.New(newStore(t))

	body := `{"detail":[{"loc":["body","email"],"msg":"a","type":"value_error"},{"loc":["body","password"],"msg":"b","type":"value_error"}]}`
	err := n.Normalize(context.Background(), newResponse(http.StatusUnprocessableEntity, "application/json", body), nil)

	requireFailure(t, err, apierrors.ErrValidation, "a, b")

	var f *apierrors.Failure
	require.ErrorAs(t, err, &f)
	require.Equal(t, http.StatusUnprocessableEntity, f.Status)
}

func TestNormalize_DetailString(t *testing.T) {
	n := response.New(newStore(t))

	err := n.Normalize(context.Background(), newResponse(http.StatusBadRequest, "application/json", `{"detail":"bad request"}`), nil)

	requireFailure(t, err, apierrors.ErrService, "bad request")
}

func TestNormalize_DetailFallback(t *testing.T) {
	cases := map[string]string{
		"no detail":     `{"error":"x"}`,
		"empty string":  `{"detail":""}`,
		"number":        `{"detail":42}`,
		"empty list":    `{"detail":[]}`,
		"invalid json":  `{"detail":`,
		"null detail":   `{"detail":null}`,
		"object detail": `{"detail":{"msg":"x"}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			n := response.New(newStore(t))
			err := n.Normalize(context.Background(), newResponse(http.StatusInternalServerError, "application/json", body), nil)
			requireFailure(t, err, apierrors.ErrService, "Error 500: Internal Server Error")
		})
	}
}

func TestNormalize_NonJSONFailure(t *testing.T) {
	t.Run("short body verbatim", func(t *testing.T) {
		n := response.New(newStore(t))
		err := n.Normalize(context.Background(), newResponse(http.StatusNotFound, "text/plain", "Not Found"), nil)
		requireFailure(t, err, apierrors.ErrService, "Not Found")
	})

	t.Run("long body replaced", func(t *testing.T) {
		n := response.New(newStore(t))
		body := strings.Repeat("x", 250)
		err := n.Normalize(context.Background(), newResponse(http.StatusBadGateway, "text/html", body), nil)
		requireFailure(t, err, apierrors.ErrService, "Request failed with status 502")
	})

	t.Run("boundary at 100 characters", func(t *testing.T) {
		n := response.New(newStore(t))
		err := n.Normalize(context.Background(), newResponse(http.StatusBadGateway, "text/html", strings.Repeat("y", 100)), nil)
		requireFailure(t, err, apierrors.ErrService, "Request failed with status 502")

		err = n.Normalize(context.Background(), newResponse(http.StatusBadGateway, "text/html", strings.Repeat("y", 99)), nil)
		requireFailure(t, err, apierrors.ErrService, strings.Repeat("y", 99))
	})
}

func TestNormalize_FailureLeavesCredential(t *testing.T) {
	store := newStore(t)
	n := response.New(store)

	err := n.Normalize(context.Background(), newResponse(http.StatusForbidden, "application/json", `{"detail":"forbidden"}`), nil)
	require.Error(t, err)
	require.True(t, store.IsPresent())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	n := response.New(newStore(t))

	var first, second int
	unsubscribe := n.Subscribe(func(response.Event) { first++ })
	n.Subscribe(func(response.Event) { second++ })

	_ = n.NormalizeBody(context.Background(), nil, http.StatusUnauthorized, "Unauthorized", http.Header{}, nil, nil)
	unsubscribe()
	_ = n.NormalizeBody(context.Background(), nil, http.StatusUnauthorized, "Unauthorized", http.Header{}, nil, nil)

	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
}

func TestNormalize_EventCarriesRequest(t *testing.T) {
	n := response.New(newStore(t))

	var got response.Event
	n.Subscribe(func(ev response.Event) { got = ev })

	resp := newResponse(http.StatusUnauthorized, "", "")
	resp.Request = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	_ = n.Normalize(context.Background(), resp, nil)

	require.Equal(t, http.MethodGet, got.Method)
	require.Equal(t, "/users/me", got.Path)
	require.False(t, got.At.IsZero())
}

func TestStatusText(t *testing.T) {
	require.Equal(t, "Not Found", response.StatusText(&http.Response{StatusCode: 404, Status: "404 Not Found"}))
	require.Equal(t, "I'm a teapot", response.StatusText(&http.Response{StatusCode: 418}))
}
