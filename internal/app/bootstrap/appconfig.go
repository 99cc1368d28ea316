// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to the catalog service lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the driver pool

	// Catalog behavior
	DefaultCurrency string  // Substituted when a requested currency matches nothing
	DedupThreshold  float64 // Title-similarity threshold for duplicate clustering (0..1]

	// Learner identity cookie (optional; enables enrolled-course exclusion)
	LearnerCookieKey  string // Secret key for signing the learner cookie
	LearnerCookieName string // Cookie name (default: coursehub-learner)

	// Base URL the service is reachable at (used in generated links)
	BaseURL string // e.g., "https://coursehub.example.com" or "http://localhost:3000"
}
