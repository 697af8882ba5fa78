package cmd

import (
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/anime4k/internal/api"
	"github.com/rm-hull/anime4k/internal/config"
	"github.com/sirupsen/logrus"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(cfg config.Config, port int, debug bool, logger *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(logger.Writer(), "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		logger.Warn("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	api.NewUpscaleHandler(cfg, logger).Register(r)

	addr := fmt.Sprintf(":%d", port)
	logger.Infof("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", port, err)
	}
	return nil
}
