package auth

import "github.com/tickops/ticktick-mcp/internal/config"

// Endpoints is the region-consistent triple of provider URLs. The three URLs
// always come from the same deployment; mixing regions would send a code
// issued by one deployment to the token endpoint of the other.
type Endpoints struct {
	Name       string
	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

var (
	globalEndpoints = Endpoints{
		Name:       "TickTick International",
		AuthURL:    "https://ticktick.com/oauth/authorize",
		TokenURL:   "https://ticktick.com/oauth/token",
		APIBaseURL: "https://api.ticktick.com/open/v1",
	}

	chinaEndpoints = Endpoints{
		Name:       "TickTick China (Dida365)",
		AuthURL:    "https://dida365.com/oauth/authorize",
		TokenURL:   "https://dida365.com/oauth/token",
		APIBaseURL: "https://api.dida365.com/open/v1",
	}
)

// EndpointsFor returns the provider endpoints for an account type. Unknown
// account types map to the international deployment.
func EndpointsFor(accountType config.AccountType) Endpoints {
	if accountType == config.AccountChina {
		return chinaEndpoints
	}
	return globalEndpoints
}

// Scopes requested during authorization.
var Scopes = []string{"tasks:read", "tasks:write"}
