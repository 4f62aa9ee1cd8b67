package identity

import (
	"net/http"
	"strings"
)

// Resolver yields the owner a request acts on behalf of. Implementations
// decide how identity arrives: fixed configuration for single-user
// deployments, a trusted header behind a reverse proxy, and so on.
type Resolver interface {
	CurrentOwner(r *http.Request) (string, bool)
}

// Static resolves every request to one fixed owner.
type Static struct {
	Owner string
}

func (s Static) CurrentOwner(*http.Request) (string, bool) {
	return s.Owner, s.Owner != ""
}

// Header reads the owner from a request header set by an authenticating
// proxy. The header value is trusted as-is.
type Header struct {
	Name string
}

func (h Header) CurrentOwner(r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get(h.Name))
	return owner, owner != ""
}
