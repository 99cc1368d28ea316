// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	catalogfeature "github.com/dalemusser/coursehub/internal/app/features/catalog"
	curriculumfeature "github.com/dalemusser/coursehub/internal/app/features/curriculum"
	healthfeature "github.com/dalemusser/coursehub/internal/app/features/health"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CourseHub mounts the health endpoint and the catalog API, with the
// curriculum router nested under each course.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Learner-identity cookie codec. Leaving the key unset disables
	// enrollment-based exclusion rather than failing startup.
	var learnerCookie *securecookie.SecureCookie
	if appCfg.LearnerCookieKey != "" {
		learnerCookie = securecookie.New([]byte(appCfg.LearnerCookieKey), nil)
	} else {
		logger.Warn("learner_cookie_key not set; enrolled-course exclusion disabled")
	}

	catalogHandler, err := catalogfeature.NewHandler(
		deps.CourseHubMongoDatabase, logger, appCfg.DefaultCurrency,
		learnerCookie, appCfg.LearnerCookieName)
	if err != nil {
		logger.Error("catalog handler init failed", zap.Error(err))
		return nil, err
	}
	catalogHandler.DedupThreshold = appCfg.DedupThreshold

	curriculumHandler, err := curriculumfeature.NewHandler(deps.CourseHubMongoDatabase, logger)
	if err != nil {
		logger.Error("curriculum handler init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CourseHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Catalog API with the curriculum router nested per course
	r.Mount("/courses", catalogfeature.Routes(catalogHandler, curriculumfeature.Routes(curriculumHandler)))

	return r, nil
}
