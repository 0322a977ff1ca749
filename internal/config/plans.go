package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanQuota sets the per-tenant limits attached to a subscription plan.
type PlanQuota struct {
	MaxUsers     int `mapstructure:"maxUsers" json:"max_users"`
	MaxStorageMB int `mapstructure:"maxStorageMb" json:"max_storage_mb"`
}

// PlansConfig maps plan names to their quotas.
type PlansConfig struct {
	Plans map[string]PlanQuota `mapstructure:"plans"`
}

// DefaultPlansConfig returns the built-in plan catalog.
func DefaultPlansConfig() PlansConfig {
	return PlansConfig{
		Plans: map[string]PlanQuota{
			"starter":      {MaxUsers: 10, MaxStorageMB: 1024},
			"professional": {MaxUsers: 50, MaxStorageMB: 10240},
			"enterprise":   {MaxUsers: 500, MaxStorageMB: 102400},
		},
	}
}

// PlansHolder serves the current plan catalog and hot-reloads it when the
// backing plans.yml changes.
type PlansHolder struct {
	current atomic.Value // holds PlansConfig
}

// NewPlansHolder loads plans.yml (if present) and starts watching it.
func NewPlansHolder() (*PlansHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gelia/config") // Volume-mounted config
	v.AddConfigPath("/etc/gelia")            // System config
	v.AddConfigPath(".")                     // Current directory (dev mode)

	v.SetEnvPrefix("GELIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PlansHolder{}

	load := func() PlansConfig {
		var cfg PlansConfig
		if err := v.Unmarshal(&cfg); err != nil || len(cfg.Plans) == 0 {
			return DefaultPlansConfig()
		}
		return cfg
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultPlansConfig())
	} else {
		holder.current.Store(load())
		v.OnConfigChange(func(_ fsnotify.Event) {
			log.Printf("plans.yml changed, reloading plan catalog")
			holder.current.Store(load())
		})
		v.WatchConfig()
	}

	return holder, nil
}

// Current returns the active plan catalog.
func (h *PlansHolder) Current() PlansConfig {
	if cfg, ok := h.current.Load().(PlansConfig); ok {
		return cfg
	}
	return DefaultPlansConfig()
}

// Quota resolves the quota for a plan, falling back to starter.
func (h *PlansHolder) Quota(plan string) PlanQuota {
	cfg := h.Current()
	if quota, ok := cfg.Plans[strings.ToLower(strings.TrimSpace(plan))]; ok {
		return quota
	}
	if quota, ok := cfg.Plans["starter"]; ok {
		return quota
	}
	return PlanQuota{MaxUsers: 10, MaxStorageMB: 1024}
}
