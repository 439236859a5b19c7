// Package response turns raw HTTP responses from the remote service into a
// decoded value or a classified failure.
//
// Rules are applied in this order:
//
//  1. 401, whatever the body: the credential is cleared, SessionExpired
//     listeners are notified and ErrSessionExpired is returned.
//  2. 2xx with a JSON body: decoded into the caller's target.
//  3. non-2xx with a JSON body: the "detail" field becomes the message.
//  4. non-2xx otherwise: short bodies are used verbatim, long ones replaced
//     by a generic message.
//  5. 2xx without JSON: an empty success.
package response

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	// SessionExpiredMessage is the message carried by every 401 failure.
	SessionExpiredMessage = "Session expired"

	// maxVerbatimLength is the rune count below which a non-JSON error body is shown as-is.
	maxVerbatimLength = 100

	maxBodyBytes = 10 << 20
)

// CredentialClearer is the part of the token store the normalizer needs.
type CredentialClearer interface {
	Clear(ctx context.Context) error
}

// Event describes a response that ended the session.
type Event struct {
	Method string
	Path   string
	At     time.Time
}

// Listener receives session-expired events. Listeners run synchronously on the
// goroutine that received the 401, after the credential has been cleared.
type Listener func(Event)

// Normalizer is the single point where responses are classified.
type Normalizer struct {
	clearer CredentialClearer

	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// New creates a Normalizer that clears credentials through clearer on 401.
func New(clearer CredentialClearer) *Normalizer {
	return &Normalizer{
		clearer:   clearer,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l for session-expired events and returns a function that
// removes it.
func (n *Normalizer) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners[id] = l

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Normalize consumes and closes resp.Body. On success the JSON body is decoded
// into target when target is non-nil.
func (n *Normalizer) Normalize(ctx context.Context, resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return n.expire(ctx, resp.Request)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apierrors.Network(fmt.Errorf("read response body: %w", err))
	}
	return n.NormalizeBody(ctx, resp.Request, resp.StatusCode, StatusText(resp), resp.Header, body, target)
}

// NormalizeBody applies the same rules to a response whose body has already
// been read. req may be nil.
func (n *Normalizer) NormalizeBody(ctx context.Context, req *http.Request, status int, statusText string, header http.Header, body []byte, target any) error {
	if status == http.StatusUnauthorized {
		return n.expire(ctx, req)
	}

	ok := status >= 200 && status <= 299
	if isJSON(header) {
		if ok {
			return decodeSuccess(status, body, target)
		}
		return jsonFailure(status, statusText, body)
	}

	if !ok {
		return textFailure(status, body)
	}
	return nil
}

func (n *Normalizer) expire(ctx context.Context, req *http.Request) error {
	ev := Event{At: time.Now()}
	if req != nil {
		ev.Method = req.Method
		if req.URL != nil {
			ev.Path = req.URL.Path
		}
	}
	log.Warn().Str("method", ev.Method).Str("path", ev.Path).Msg("Session expired, clearing credential")

	if n.clearer != nil {
		// A concurrent 401 may already have cleared it; the error only matters for logging.
		if err := n.clearer.Clear(ctx); err != nil {
			log.Err(err).Msg("Failed to clear credential after 401")
		}
	}

	for _, l := range n.snapshot() {
		l(ev)
	}
	return apierrors.NewFailure(apierrors.ErrSessionExpired, http.StatusUnauthorized, SessionExpiredMessage)
}

func (n *Normalizer) snapshot() []Listener {
	n.mu.Lock()
	defer n.mu.Unlock()
	ls := make([]Listener, 0, len(n.listeners))
	for id := 0; id < n.nextID; id++ {
		if l, ok := n.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	return ls
}

func decodeSuccess(status int, body []byte, target any) error {
	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &apierrors.Failure{
			Kind:    apierrors.ErrService,
			Status:  status,
			Message: "Invalid response from server",
			Err:     err,
		}
	}
	return nil
}

// errorPayload is the service's error envelope. detail is either a string or
// a list of {loc, msg, type} objects.
type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type detailItem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func jsonFailure(status int, statusText string, body []byte) error {
	fallback := fmt.Sprintf("Error %d: %s", status, statusText)

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return &apierrors.Failure{Kind: apierrors.ErrService, Status: status, Message: fallback, Err: err}
	}

	detail := bytes.TrimSpace(payload.Detail)
	switch {
	case len(detail) > 0 && detail[0] == '[':
		if msg, ok := joinDetailList(detail); ok {
			return apierrors.NewFailure(apierrors.ErrValidation, status, msg)
		}
	case len(detail) > 0 && detail[0] == '"':
		var s string
		if err := json.Unmarshal(detail, &s); err == nil && s != "" {
			return apierrors.NewFailure(apierrors.ErrService, status, s)
		}
	}
	return apierrors.NewFailure(apierrors.ErrService, status, fallback)
}

func joinDetailList(detail json.RawMessage) (string, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal(detail, &raw); err != nil || len(raw) == 0 {
		return "", false
	}
	msgs := make([]string, 0, len(raw))
	for _, r := range raw {
		var item detailItem
		// Entries that are not objects contribute an empty message.
		_ = json.Unmarshal(r, &item)
		msgs = append(msgs, item.Msg)
	}
	return strings.Join(msgs, ", "), true
}

func textFailure(status int, body []byte) error {
	text := string(body)
	if utf8.RuneCountInString(text) < maxVerbatimLength {
		return apierrors.NewFailure(apierrors.ErrService, status, text)
	}
	return apierrors.NewFailure(apierrors.ErrService, status, fmt.Sprintf("Request failed with status %d", status))
}

func isJSON(header http.Header) bool {
	return strings.Contains(header.Get("Content-Type"), "application/json")
}

// StatusText returns the reason phrase of resp, e.g. "Not Found".
func StatusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
