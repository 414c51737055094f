package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"bandroom/internal/server"
	"bandroom/internal/services"
	"bandroom/internal/shared"
)

// Serve runs the REST API. Bearer tokens from the [[users]] config entries
// authenticate requests; the health endpoint stays public.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	auth := services.StaticAuthenticator{}
	for _, user := range r.config.Users {
		if user.Token == "" {
			continue
		}
		auth[user.Token] = services.Identity{
			UID:         user.UID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		}
	}
	if len(auth) == 0 {
		return fmt.Errorf("%w: no user tokens configured, add [[users]] entries with tokens to the config", shared.ErrInvalidConfig)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	router := server.NewBasicRouter()
	router.Handle("GET /api/health", server.HealthHandler())
	router.Use(server.RequestLogger(r.logger), server.RequireAuth(auth))
	server.NewAPI(engine, r.logger).Register(router)

	host := r.config.Server.Host
	if cmd.String("host") != "" {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.Int("port") != 0 {
		port = cmd.Int("port")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	r.logger.Info("serving API", "addr", addr, "users", len(auth))
	r.writePlain("Listening on http://%s\n", addr)

	return http.ListenAndServe(addr, router)
}
