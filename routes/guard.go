package routes

import (
	"strings"
	"sync"

	"github.com/jrsteele09/neuroguard/response"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of guarding one navigation.
type Decision struct {
	Target     string
	Redirected bool
}

// Resolve decides where a navigation to requested ends up. Login and register
// are only reachable without an identity; everything else needs one. The root
// path always redirects.
func Resolve(identityPresent bool, requested string) Decision {
	switch screenOf(requested) {
	case ScreenRoot:
		if identityPresent {
			return Decision{Target: ScreenDashboard, Redirected: true}
		}
		return Decision{Target: ScreenLogin, Redirected: true}
	case ScreenLogin, ScreenRegister:
		if identityPresent {
			return Decision{Target: ScreenDashboard, Redirected: true}
		}
		return Decision{Target: requested}
	default:
		if !identityPresent {
			return Decision{Target: ScreenLogin, Redirected: true}
		}
		return Decision{Target: requested}
	}
}

// LandingAfterLogin is the screen shown once a login or registration completes.
func LandingAfterLogin(newUser bool) string {
	if newUser {
		return ScreenProfileSetup
	}
	return ScreenDashboard
}

// screenOf strips query and fragment and maps /history/<id> to its pattern.
func screenOf(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return ScreenRoot
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if strings.HasPrefix(path, ScreenHistory+"/") {
		return ScreenHistoryDetail
	}
	return path
}

// ExpirySource delivers session-expired events.
type ExpirySource interface {
	Subscribe(l response.Listener) (unsubscribe func())
}

// IdentityFunc reports whether an identity is currently held.
type IdentityFunc func() bool

// Navigator tracks the current screen, guarding every navigation, and forces
// the login screen whenever a response ends the session.
type Navigator struct {
	identity IdentityFunc

	mu      sync.RWMutex
	current string

	unsubscribe func()
}

// NewNavigator starts on the root screen. When expiry is non-nil the
// navigator subscribes to it.
func NewNavigator(identity IdentityFunc, expiry ExpirySource) *Navigator {
	n := &Navigator{identity: identity, current: ScreenRoot}
	if expiry != nil {
		n.unsubscribe = expiry.Subscribe(n.onSessionExpired)
	}
	return n
}

// Close detaches the navigator from session-expired events.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// Navigate guards a navigation to requested and moves to the resolved screen.
// The decision is recomputed on every call.
func (n *Navigator) Navigate(requested string) Decision {
	d := Resolve(n.identity(), requested)

	n.mu.Lock()
	n.current = d.Target
	n.mu.Unlock()

	if d.Redirected {
		log.Debug().Str("requested", requested).Str("target", d.Target).Msg("Navigation redirected")
	}
	return d
}

// Current returns the screen the navigator is on.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

func (n *Navigator) onSessionExpired(response.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = ScreenLogin
}
