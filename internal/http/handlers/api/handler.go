package api

import "github.com/repartia/api/internal/provider"

// Handler field API handler entry point. One handler serves sellers,
// deliverers, and admins; routes gate the admin-only surface.
type Handler struct {
	*provider.Container
}

// New creates the API handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
