// Package session adapts a caller-owned key-value bag into a typed view of Spotify auth state.
//
// The bag belongs to whatever session mechanism the caller uses (an HTTP
// session, a CLI state file, a test map). The view never copies it; writes in
// one place are visible everywhere the bag is shared. Only three fields are
// ever written: the access token, its expiry and the lazily resolved user id.
package session

import "sync"

// Bag keys used by the Spotify session view.
const (
	KeyToken        = "spotify_token"
	KeyExpiresAt    = "spotify_expires_at"
	KeyRefreshToken = "spotify_refresh_token"
	KeyUser         = "spotify_user"
)

// Bag is the raw mutable session state supplied by the caller.
type Bag map[string]any

// View provides typed read/write access to Spotify auth state in a [Bag].
//
// A View is safe for the sequential per-request use it is built for; the
// internal mutex only guards against the accepted cross-tab write race.
type View struct {
	mu  sync.Mutex
	bag Bag
}

// NewView wraps the given bag. A nil bag yields an empty, writable session.
func NewView(bag Bag) *View {
	if bag == nil {
		bag = make(Bag)
	}
	return &View{bag: bag}
}

// Token returns the stored access token, or "" when absent.
func (v *View) Token() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return stringValue(v.bag[KeyToken])
}

// SetToken overwrites the access token in place.
func (v *View) SetToken(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bag[KeyToken] = token
}

// ExpiresAt returns the token expiry as epoch seconds, or 0 when absent.
// A zero expiry is treated as already expired by the token manager.
func (v *View) ExpiresAt() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return intValue(v.bag[KeyExpiresAt])
}

// SetExpiresAt overwrites the token expiry (epoch seconds) in place.
func (v *View) SetExpiresAt(epoch int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bag[KeyExpiresAt] = epoch
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (v *View) RefreshToken() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return stringValue(v.bag[KeyRefreshToken])
}

// UserID returns the Spotify user id stored in the bag, or "" when absent.
//
// The id lives nested under the user entry, mirroring how OAuth middleware
// stores the whole auth payload.
func (v *View) UserID() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch user := v.bag[KeyUser].(type) {
	case map[string]any:
		return stringValue(user["id"])
	case map[string]string:
		return user["id"]
	}
	return ""
}

// SetUserID writes the lazily resolved user id back into the bag.
func (v *View) SetUserID(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if user, ok := v.bag[KeyUser].(map[string]any); ok {
		user["id"] = id
		return
	}
	v.bag[KeyUser] = map[string]any{"id": id}
}

// stringValue coerces a bag value to string, tolerating absent and nil entries.
func stringValue(raw any) string {
	s, _ := raw.(string)
	return s
}

// intValue coerces the numeric types a bag may carry after JSON or gob round-trips.
func intValue(raw any) int64 {
	switch n := raw.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
