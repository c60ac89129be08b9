package endpoints

import (
	"github.com/jackzampolin/assessor/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},
		&MetricsEndpoint{},

		// Recommendation endpoints
		&RecommendEndpoint{},
		&CatalogEndpoint{},

		// Web form (catch-all, must be last)
		&FormEndpoint{},
	}
}
