package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/geliahq/gelia/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("auth.token",
	fx.Provide(NewFromConfig),
)

// NewFromConfig builds the token service from application config. When no
// signing secret is configured an ephemeral one is generated, which
// invalidates all tokens on restart.
func NewFromConfig(cfg config.Config, log *zap.Logger) (*Service, error) {
	secret := cfg.AuthSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = base64.RawStdEncoding.EncodeToString(buf)
		log.Warn("AUTH_JWT_SECRET not set, using an ephemeral signing secret")
	}
	return New(secret, cfg.AccessTokenTTL)
}
