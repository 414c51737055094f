// Package server provides HTTP routing, middleware, and the REST API for the band practice service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and relies on its
// method-prefixed patterns ("GET /api/collections/{id}") for method filtering.
//
// # Authentication
//
// Every /api route except /api/health runs behind [RequireAuth], which verifies the
// bearer token with a [services.Authenticator] and stores the resulting identity in
// the request context. Handlers read it back with [IdentityFrom].
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow used by the CLI
// to authenticate against Spotify. It validates the state parameter, exchanges the
// authorization code for tokens, and sends the result through a channel. It only
// processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
