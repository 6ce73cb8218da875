package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Batch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Batch.Timeout)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "log", cfg.Activity.Transport)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.JWT.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("BATCH_WORKERS", "4")
	v.Set("BATCH_TIMEOUT", "2m")
	v.Set("ACTIVITY_PUBLISH_TIMEOUT", "3")
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("ACTIVITY_TRANSPORT", "kafka")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("JWT_SECRET", "s")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Batch.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Activity.PublishTimeout)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.JWT.Enabled())
}

func TestFromViper_Invalida(t *testing.T) {
	cases := map[string][2]string{
		"workers cero":           {"BATCH_WORKERS", "0"},
		"timeout negativo":       {"BATCH_TIMEOUT", "-1s"},
		"driver desconocido":     {"STORE_DRIVER", "sqlite"},
		"transporte desconocido": {"ACTIVITY_TRANSPORT", "nats"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			v.Set(kv[0], kv[1])
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
