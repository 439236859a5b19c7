package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/internal/metrics"
	"github.com/jrsteele09/neuroguard/response"
	"golang.org/x/oauth2"
)

// Client exposes the remote service operations. Every result goes through the
// normalizer, so every error is an *errors.Failure.
type Client struct {
	transport  *Transport
	normalizer *response.Normalizer
	metrics    metrics.Recorder
}

// NewClient wires a transport to a normalizer. recorder may be nil.
func NewClient(transport *Transport, normalizer *response.Normalizer, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Client{transport: transport, normalizer: normalizer, metrics: recorder}
}

// Normalizer returns the normalizer so callers can subscribe to session expiry.
func (c *Client) Normalizer() *response.Normalizer {
	return c.normalizer
}

func (c *Client) Register(ctx context.Context, req apimodel.RegisterRequest) (*apimodel.User, error) {
	var user apimodel.User
	err := c.call(ctx, OpRegister, func() (*http.Response, error) {
		return c.transport.Register(ctx, req)
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExchangeCredentials trades an identifier and secret for a bearer token.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (*apimodel.AuthResponse, error) {
	start := time.Now()
	tok, err := c.transport.ExchangeCredentials(ctx, username, password)
	if err != nil {
		err = c.classifyExchangeError(ctx, err)
		c.record(OpExchangeCredentials, err, start)
		return nil, err
	}
	c.record(OpExchangeCredentials, nil, start)
	return &apimodel.AuthResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, nil
}

func (c *Client) classifyExchangeError(ctx context.Context, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		resp := retrieveErr.Response
		if failure := c.normalizer.NormalizeBody(ctx, resp.Request, resp.StatusCode, response.StatusText(resp), resp.Header, bytes.Clone(retrieveErr.Body), nil); failure != nil {
			return failure
		}
		// 2xx carrying an OAuth error field.
		return &apierrors.Failure{Kind: apierrors.ErrService, Status: resp.StatusCode, Message: "Invalid response from server", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apierrors.Network(err)
	}
	// 2xx without a usable access_token.
	return &apierrors.Failure{Kind: apierrors.ErrService, Message: "Invalid response from server", Err: err}
}

func (c *Client) FetchIdentity(ctx context.Context) (*apimodel.User, error) {
	var user apimodel.User
	err := c.call(ctx, OpFetchIdentity, func() (*http.Response, error) {
		return c.transport.FetchIdentity(ctx)
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateDefaults succeeds on 204 No Content as well as on a JSON 2xx.
func (c *Client) UpdateDefaults(ctx context.Context, defaults apimodel.PersonalDefaults) error {
	return c.call(ctx, OpUpdateDefaults, func() (*http.Response, error) {
		return c.transport.UpdateDefaults(ctx, defaults)
	}, nil)
}

func (c *Client) Predict(ctx context.Context, model apimodel.ModelType, input apimodel.PredictionInput) (*apimodel.PredictionResponse, error) {
	var result apimodel.PredictionResponse
	err := c.call(ctx, OpSubmitPrediction, func() (*http.Response, error) {
		return c.transport.SubmitPrediction(ctx, model, input)
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) History(ctx context.Context, skip, limit int) ([]apimodel.HistoryItem, error) {
	var items []apimodel.HistoryItem
	err := c.call(ctx, OpListHistory, func() (*http.Response, error) {
		return c.transport.ListHistory(ctx, skip, limit)
	}, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) HistoryDetail(ctx context.Context, id string) (*apimodel.HistoryDetail, error) {
	var detail apimodel.HistoryDetail
	err := c.call(ctx, OpFetchHistoryDetail, func() (*http.Response, error) {
		return c.transport.FetchHistoryDetail(ctx, id)
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) call(ctx context.Context, op Operation, send func() (*http.Response, error), target any) error {
	start := time.Now()
	resp, err := send()
	if err != nil {
		err = apierrors.Network(err)
		c.record(op, err, start)
		return err
	}
	err = c.normalizer.Normalize(ctx, resp, target)
	c.record(op, err, start)
	return err
}

func (c *Client) record(op Operation, err error, start time.Time) {
	outcome := outcomeOf(err)
	c.metrics.RecordRequest(string(op), outcome, time.Since(start))
	if outcome == metrics.OutcomeSessionExpired {
		c.metrics.RecordSessionExpired()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apierrors.ErrSessionExpired):
		return metrics.OutcomeSessionExpired
	case errors.Is(err, apierrors.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, apierrors.ErrNetwork):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeService
	}
}
