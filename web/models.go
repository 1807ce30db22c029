package web

import (
	"cptracker/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API
}

// Server is the HTTP server that exposes the tracker facade as thin JSON
// handlers. Callers are assumed to be already authenticated upstream.
type Server struct {
	api *api.API
}
