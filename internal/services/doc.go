// Package services implements the Spotify Web API client used by every surface of the application.
//
// # Client Lifecycle
//
// [SpotifyClient] is constructed fresh per inbound request around that
// request's [session.View]. Operations execute sequentially within the
// request, so the client holds no internal locks; the only tolerated races
// are concurrent token refreshes (idempotent, last write wins) and cache
// writes (last write wins per key).
//
// # Request Pipeline
//
// Every operation flows through the same stages:
//
//	cache lookup → token refresh if stale → HTTP call (chunked for bulk IDs) → mapping → cache write
//
// # Error Taxonomy
//
// All failures are [ClientError] values with an explicit kind:
//   - [KindRemote] : non-2xx responses, malformed success bodies, transport failures
//   - [KindUnauthorized] : token refresh failures only — missing refresh token,
//     missing client credentials, or a logical grant denial
//
// Resource-API 401/403 responses deliberately surface as [KindRemote]; callers
// treat [KindUnauthorized] as the unambiguous signal to clear the session.
// The client performs no logging and no retries; rate-limit responses (429)
// surface as remote errors every time.
//
// # Caching
//
// Reads are memoized in an injected [cache.Store] under keys of the form
// spotify_<user_id>_<operation>_<canonical args>. Any mutation drops the whole
// user namespace via prefix delete. When no user id can be resolved the cache
// is bypassed entirely.
package services
