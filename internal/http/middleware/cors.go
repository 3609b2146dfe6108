package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

// CORS builds the cross-origin policy for the public endpoints. With no
// origins configured the policy is permissive in development and denies
// everything in staging/production; a wildcard entry allows any origin
// but is logged loudly outside development.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	denyAll := func(r *http.Request, origin string) bool { return false }

	switch {
	case hasWildcardOrigin(cfg.AllowedOrigins):
		if !isDevEnvironment(environment) {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDevEnvironment(environment):
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development mode")

	default:
		// An empty AllowedOrigins list would default to "*", so the
		// deny case needs an explicit AllowOriginFunc.
		options.AllowOriginFunc = denyAll
		logger.Warn("CORS has no allowed origins, all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func hasWildcardOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func isDevEnvironment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}
