package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv             string
	HTTPAddr           string
	MetricsAddr        string
	MySQLDSN           string
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	CacheTTL           time.Duration
	BootstrapAdminUser string
	BootstrapAdminPass string
	AuthRatePerMin     int
	SeedFile           string
	SeedWorkers        int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:             env("APP_ENV", "prod"),
		HTTPAddr:           env("HTTP_ADDR", ":8080"),
		MetricsAddr:        env("METRICS_ADDR", ":9100"),
		MySQLDSN:           env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:          env("REDIS_ADDR", "localhost:6379"),
		RedisPass:          env("REDIS_PASSWORD", ""),
		RedisDB:            atoi("REDIS_DB", 0),
		CacheTTL:           time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		BootstrapAdminUser: env("BOOTSTRAP_ADMIN_USER", "admin"),
		BootstrapAdminPass: env("BOOTSTRAP_ADMIN_PASS", ""),
		AuthRatePerMin:     atoi("AUTH_RATE_PER_MIN", 30),
		SeedFile:           env("SEED_FILE", "rooms.json"),
		SeedWorkers:        atoi("SEED_WORKERS", 4),
	}
	if c.BootstrapAdminPass == "" {
		log.Warn().Msg("BOOTSTRAP_ADMIN_PASS is empty; no admin account will be bootstrapped")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
