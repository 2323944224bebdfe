package config_test

import (
	"testing"
	"time"

	"foodspot/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{"JWT_SECRET": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, config.NotifierRabbitMQ, cfg.Notifier)
	assert.Equal(t, config.TrackingUUID, cfg.TrackingScheme)
	assert.Equal(t, "foodspot", cfg.TrackingPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"JWT_SECRET":      "secret",
		"DB_DRIVER":       "SQLite",
		"NOTIFIER":        "kafka",
		"KAFKA_BROKERS":   "k1:9092, k2:9092,",
		"TRACKING_SCHEME": "random",
		"JWT_TTL":         "2h",
	}))
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, config.NotifierKafka, cfg.Notifier)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, config.TrackingRandom, cfg.TrackingScheme)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]any{
		"missing secret":   {},
		"unknown driver":   {"JWT_SECRET": "s", "DB_DRIVER": "oracle"},
		"unknown notifier": {"JWT_SECRET": "s", "NOTIFIER": "pigeon"},
		"unknown scheme":   {"JWT_SECRET": "s", "TRACKING_SCHEME": "sequential"},
		"kafka no broker":  {"JWT_SECRET": "s", "NOTIFIER": "kafka", "KAFKA_BROKERS": " "},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
