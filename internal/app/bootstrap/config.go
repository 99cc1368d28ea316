// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CourseHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, default_currency, etc.
//   - Environment variables: COURSEHUB_MONGO_URI, COURSEHUB_DEFAULT_CURRENCY, etc.
//   - Command-line flags: --mongo_uri, --default_currency, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coursehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Catalog behavior
	{Name: "default_currency", Default: "USD", Desc: "Currency substituted when a requested currency matches no published course"},
	{Name: "dedup_threshold", Default: "0.8", Desc: "Title-similarity threshold for duplicate clustering (0..1]"},

	// Learner identity cookie
	{Name: "learner_cookie_key", Default: "", Desc: "Signing key for the learner-identity cookie (blank disables enrollment exclusion)"},
	{Name: "learner_cookie_name", Default: "coursehub-learner", Desc: "Learner-identity cookie name"},

	// Base URL for generated links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL the service is reachable at"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COURSEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DefaultCurrency: appValues.String("default_currency"),

		LearnerCookieKey:  appValues.String("learner_cookie_key"),
		LearnerCookieName: appValues.String("learner_cookie_name"),

		BaseURL: appValues.String("base_url"),
	}

	// Threshold arrives as a string so the same value works from files,
	// env vars, and flags; range enforcement happens in ValidateConfig.
	threshold, err := strconv.ParseFloat(appValues.String("dedup_threshold"), 64)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("dedup_threshold is not a number: %w", err)
	}
	appCfg.DedupThreshold = threshold

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// CourseHub validates the MongoDB URI format and the dedup threshold to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.DedupThreshold <= 0 || appCfg.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in (0, 1], got %v", appCfg.DedupThreshold)
	}

	if appCfg.DefaultCurrency == "" {
		return fmt.Errorf("default_currency must not be empty")
	}

	return nil
}
