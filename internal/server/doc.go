// Package server provides HTTP routing, middleware, sessions and OAuth
// handling for the listening dashboard.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// # Sessions
//
// [Registry] keeps one session bag per browser session, keyed by an opaque
// cookie. [SessionMiddleware] resolves the bag for each request and stores
// it on the request context; handlers retrieve it with [BagFromContext].
// The bag is the same mutable map the Spotify client refreshes tokens into,
// so a token refreshed during one request is visible to the next.
//
// # Auth
//
// [AuthHandler] runs the OAuth2 authorization-code flow: /login redirects
// to the consent page with a per-attempt state token, /callback validates
// state, exchanges the code and writes access token, expiry and refresh
// token into the session bag.
//
// # API
//
// [DashboardHandler] serves the JSON endpoints backing the dashboard pages.
// Each request builds a fresh Spotify client over the caller's bag. When an
// operation fails with an unauthorized error the refresh grant is gone:
// the handler drops the session and returns 401 so the browser restarts the
// login flow. Remote API failures map to 502.
package server
