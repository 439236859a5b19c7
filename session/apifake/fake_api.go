package apifake

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/neuroguard/apimodel"
)

// FakeAPI is a scriptable session.API. Each *Err field, when set, is returned
// by the matching call.
type FakeAPI struct {
	lock  sync.Mutex
	calls []string

	Token    string
	User     *apimodel.User
	Items    []apimodel.HistoryItem
	Detail   *apimodel.HistoryDetail
	Result   *apimodel.PredictionResponse
	Defaults *apimodel.PersonalDefaults

	RegisterErr error
	ExchangeErr error
	IdentityErr error
	DefaultsErr error
	PredictErr  error
	HistoryErr  error
}

func NewFakeAPI(token string, user *apimodel.User) *FakeAPI {
	return &FakeAPI{Token: token, User: user}
}

// Calls returns the operations invoked so far, in order.
func (f *FakeAPI) Calls() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeAPI) record(call string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, call)
}

func (f *FakeAPI) Register(_ context.Context, req apimodel.RegisterRequest) (*apimodel.User, error) {
	f.record("register")
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &apimodel.User{Email: req.Email, FullName: req.FullName}, nil
}

func (f *FakeAPI) ExchangeCredentials(_ context.Context, _, _ string) (*apimodel.AuthResponse, error) {
	f.record("exchange")
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return &apimodel.AuthResponse{AccessToken: f.Token, TokenType: "bearer"}, nil
}

func (f *FakeAPI) FetchIdentity(_ context.Context) (*apimodel.User, error) {
	f.record("identity")
	if f.IdentityErr != nil {
		return nil, f.IdentityErr
	}
	if f.User == nil {
		return nil, errors.New("no user")
	}
	return f.User, nil
}

func (f *FakeAPI) UpdateDefaults(_ context.Context, defaults apimodel.PersonalDefaults) error {
	f.record("defaults")
	if f.DefaultsErr != nil {
		return f.DefaultsErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Defaults = &defaults
	return nil
}

func (f *FakeAPI) Predict(_ context.Context, _ apimodel.ModelType, _ apimodel.PredictionInput) (*apimodel.PredictionResponse, error) {
	f.record("predict")
	if f.PredictErr != nil {
		return nil, f.PredictErr
	}
	return f.Result, nil
}

func (f *FakeAPI) History(_ context.Context, _, _ int) ([]apimodel.HistoryItem, error) {
	f.record("history")
	if f.HistoryErr != nil {
		return nil, f.HistoryErr
	}
	return f.Items, nil
}

func (f *FakeAPI) HistoryDetail(_ context.Context, _ string) (*apimodel.HistoryDetail, error) {
	f.record("detail")
	if f.HistoryErr != nil {
		return nil, f.HistoryErr
	}
	return f.Detail, nil
}
