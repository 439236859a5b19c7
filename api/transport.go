package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/neuroguard/apimodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// CredentialSource supplies the bearer credential, if any.
type CredentialSource interface {
	Token() (string, bool)
}

// Transport sends exactly one HTTP request per logical operation. It does not
// look at status codes; that is the normalizer's job.
type Transport struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
}

// NewTransport creates a Transport for the service at baseURL. A nil
// httpClient uses a client without timeout.
func NewTransport(baseURL string, httpClient *http.Client, credentials CredentialSource) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	traced := *httpClient
	traced.Transport = &tracingRoundTripper{next: httpClient.Transport}

	return &Transport{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &traced,
		credentials: credentials,
	}
}

// Register posts the registration form as JSON. No credential is attached.
func (t *Transport) Register(ctx context.Context, req apimodel.RegisterRequest) (*http.Response, error) {
	return t.sendJSON(ctx, http.MethodPost, RouteRegister, req, false)
}

// ExchangeCredentials performs the password grant. The body is form-urlencoded
// with username, password and grant_type=password. A non-2xx answer comes back
// as *oauth2.RetrieveError holding the response and its body.
func (t *Transport) ExchangeCredentials(ctx context.Context, username, password string) (*oauth2.Token, error) {
	cfg := oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  t.baseURL + RouteToken,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	return cfg.PasswordCredentialsToken(ctx, username, password)
}

// FetchIdentity gets the current user.
func (t *Transport) FetchIdentity(ctx context.Context) (*http.Response, error) {
	return t.sendJSON(ctx, http.MethodGet, RouteMe, nil, true)
}

// UpdateDefaults replaces the personal defaults.
func (t *Transport) UpdateDefaults(ctx context.Context, defaults apimodel.PersonalDefaults) (*http.Response, error) {
	return t.sendJSON(ctx, http.MethodPut, RouteMeDefaults, defaults, true)
}

// SubmitPrediction posts an assessment to the chosen model.
func (t *Transport) SubmitPrediction(ctx context.Context, model apimodel.ModelType, input apimodel.PredictionInput) (*http.Response, error) {
	return t.sendJSON(ctx, http.MethodPost, RoutePredict+url.PathEscape(string(model)), input, true)
}

// ListHistory pages through past predictions.
func (t *Transport) ListHistory(ctx context.Context, skip, limit int) (*http.Response, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return t.sendJSON(ctx, http.MethodGet, RouteHistory+"?"+q.Encode(), nil, true)
}

// FetchHistoryDetail gets one past prediction.
func (t *Transport) FetchHistoryDetail(ctx context.Context, id string) (*http.Response, error) {
	return t.sendJSON(ctx, http.MethodGet, RouteHistoryDetail+url.PathEscape(id), nil, true)
}

func (t *Transport) sendJSON(ctx context.Context, method, path string, body any, authenticated bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	// A missing credential is not pre-empted; the service rejects the call.
	if authenticated && t.credentials != nil {
		if token, ok := t.credentials.Token(); ok {
			(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
		}
	}
	return t.httpClient.Do(req)
}

// tracingRoundTripper tags every outgoing request, including the ones built by
// the oauth2 package, with a request id and user agent.
type tracingRoundTripper struct {
	next http.RoundTripper
}

func (rt *tracingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := rt.next
	if next == nil {
		next = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := next.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("method", req.Method).Str("path", req.URL.Path).Msg("Request failed")
		return nil, err
	}
	log.Debug().Str("request_id", requestID).Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("Request completed")
	return resp, nil
}
