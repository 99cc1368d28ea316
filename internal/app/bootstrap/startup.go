// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/coursehub/internal/app/system/dedup"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.DedupThreshold != dedup.DefaultThreshold {
		logger.Info("using non-default dedup threshold",
			zap.Float64("threshold", appCfg.DedupThreshold))
	}
	return nil
}
