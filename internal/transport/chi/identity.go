package chi

import (
	"net/http"
	"strings"

	"github.com/kailas-cloud/findex/internal/usecase/visibility"
)

// Identity headers set by the API gateway after token verification.
// Token verification itself never happens in this service.
const (
	headerUserID   = "X-Findex-User-Id"
	headerBadges   = "X-Findex-Badges"
	headerEmployee = "X-Findex-Employee"
)

// identityFromHeaders derives the caller's visibility context from gateway
// headers. A missing user id means an anonymous caller.
func identityFromHeaders(r *http.Request) visibility.Context {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID == "" {
		return visibility.Context{}
	}

	var badges []string
	if raw := r.Header.Get(headerBadges); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				badges = append(badges, b)
			}
		}
	}

	return visibility.Context{
		IsAuthenticated: true,
		Badges:          badges,
		IsEmployee:      strings.EqualFold(r.Header.Get(headerEmployee), "true"),
	}
}
