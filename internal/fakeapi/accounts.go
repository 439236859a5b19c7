package fakeapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user         apimodel.User
	passwordHash string
	history      []apimodel.HistoryDetail // oldest first
}

// accounts is the in-memory user and prediction store of the fake service.
type accounts struct {
	byID     map[string]*account
	emailIDs map[string]string // email to user id
	lock     sync.RWMutex
}

func newAccounts() *accounts {
	return &accounts{
		byID:     make(map[string]*account),
		emailIDs: make(map[string]string),
	}
}

var errEmailTaken = apierrors.Wrapf(apierrors.ErrInvalidRequest, "email already registered")

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (a *accounts) create(req apimodel.RegisterRequest) (apimodel.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return apimodel.User{}, apierrors.Wrapf(err, "failed to hash password")
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if _, ok := a.emailIDs[req.Email]; ok {
		return apimodel.User{}, errEmailTaken
	}
	acc := &account{
		user: apimodel.User{
			ID:       uuid.New().String(),
			Email:    req.Email,
			FullName: req.FullName,
		},
		passwordHash: hash,
	}
	a.byID[acc.user.ID] = acc
	a.emailIDs[req.Email] = acc.user.ID
	return acc.user, nil
}

// authenticate returns the user when password matches the stored hash.
func (a *accounts) authenticate(email, password string) (apimodel.User, bool) {
	a.lock.RLock()
	acc, ok := a.byEmail(email)
	a.lock.RUnlock()
	if !ok {
		return apimodel.User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
		return apimodel.User{}, false
	}
	return acc.user, true
}

func (a *accounts) byEmail(email string) (*account, bool) {
	id, ok := a.emailIDs[email]
	if !ok {
		return nil, false
	}
	acc, ok := a.byID[id]
	return acc, ok
}

func (a *accounts) user(email string) (apimodel.User, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	acc, ok := a.byEmail(email)
	if !ok {
		return apimodel.User{}, apierrors.ErrNotFound
	}
	return acc.user, nil
}

func (a *accounts) setDefaults(email string, d apimodel.PersonalDefaults) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	acc, ok := a.byEmail(email)
	if !ok {
		return apierrors.ErrNotFound
	}
	acc.user.PersonalDefaults = &d
	return nil
}

func (a *accounts) record(email string, in apimodel.PredictionInput, res apimodel.PredictionResponse, at time.Time) (apimodel.HistoryDetail, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	acc, ok := a.byEmail(email)
	if !ok {
		return apimodel.HistoryDetail{}, apierrors.ErrNotFound
	}
	d := apimodel.HistoryDetail{
		HistoryItem: apimodel.HistoryItem{
			ID:              uuid.New().String(),
			Timestamp:       at,
			ModelUsed:       res.ModelUsed,
			PredictionLabel: res.PredictionLabel,
			PredictionScore: res.PredictionScore,
		},
		InputData:   in,
		Probability: res.Probability,
	}
	acc.history = append(acc.history, d)
	return d, nil
}

// list returns a page of the user's history, newest first.
func (a *accounts) list(email string, skip, limit int) ([]apimodel.HistoryItem, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	acc, ok := a.byEmail(email)
	if !ok {
		return nil, apierrors.ErrNotFound
	}
	items := make([]apimodel.HistoryItem, 0, len(acc.history))
	for i := len(acc.history) - 1; i >= 0; i-- {
		items = append(items, acc.history[i].HistoryItem)
	}

	if skip >= len(items) {
		return []apimodel.HistoryItem{}, nil
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (a *accounts) detail(email, id string) (apimodel.HistoryDetail, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	acc, ok := a.byEmail(email)
	if !ok {
		return apimodel.HistoryDetail{}, apierrors.ErrNotFound
	}
	for _, d := range acc.history {
		if d.ID == id {
			return d, nil
		}
	}
	return apimodel.HistoryDetail{}, apierrors.ErrNotFound
}
