//go:build !test

/* server.go
 * Contains the HTTP server Start function that listens for incoming connections.
 * Excluded from test coverage as it blocks and requires real network binding.
 */

package web

import (
	"log"
	"net/http"
	"time"
)

// Start initializes and starts the HTTP server with the given configuration
func Start(cfg Config) error {
	s := &Server{
		api: cfg.API,
	}

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     s.routes(),
		ReadTimeout: 5 * time.Second,
		// scrape responses wait on live platform fetches
		WriteTimeout: 2 * time.Minute,
	}

	log.Println("HTTP server listening on", cfg.Addr)
	return srv.ListenAndServe()
}
