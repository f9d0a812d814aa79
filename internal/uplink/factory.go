package uplink

import (
	"crypto/tls"
	"log/slog"

	"github.com/BMFCloud/InfraSnitch/internal/config"
)

func NewPublisherFromConfig(cfg config.Config, tlsCfg *tls.Config, logger *slog.Logger) (Publisher, error) {
	return NewGRPCClient(
		cfg.UplinkGRPCAddr,
		tlsCfg,
		cfg.UplinkToken,
		cfg.UplinkMethod,
		logger,
	), nil
}
