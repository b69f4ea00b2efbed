package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-default:"local" env-description:"environment name, local enables console logs"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	SMTP       SMTPConfig
	Email      EmailConfig
	Recaptcha  Recaptcha
	Cache      Cache
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT,PORT" env-default:"3000"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	CORSOrigins    []string      `env:"HTTP_CORS_ORIGINS" env-default:"*" env-description:"comma separated allowed origins, * allows any"`
}

type Database struct {
	DSN                string        `env:"DB_DSN" env-description:"mysql dsn, empty keeps registrants in memory"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"10"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"10"`
}

func (d Database) Enabled() bool {
	return d.DSN != ""
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"EMAIL_USER" env-description:"relay account, also used as sender address"`
	Pass string `env:"EMAIL_PASS"`
}

// Configured reports whether the relay account is set. Without it every
// notification is skipped.
func (s SMTPConfig) Configured() bool {
	return s.From != "" && s.Pass != ""
}

type EmailConfig struct {
	FromName   string `env:"EMAIL_FROM_NAME" env-default:"Athaan Fi Beit"`
	AdminEmail string `env:"ADMIN_EMAIL" env-description:"admin alert destination, empty skips the alert"`
	Templates  EmailTemplates
}

type EmailTemplates struct {
	AdminRegistration string `env:"EMAIL_TEMPLATE_ADMIN_REGISTRATION" env-default:"admin_registration.html"`
	Welcome           string `env:"EMAIL_TEMPLATE_WELCOME" env-default:"welcome.html"`
}

type Recaptcha struct {
	Secret    string        `env:"RECAPTCHA_SECRET" env-description:"empty bypasses verification"`
	SiteKey   string        `env:"RECAPTCHA_SITE_KEY" env-description:"public key rendered into the landing page"`
	MinScore  float64       `env:"RECAPTCHA_MIN_SCORE" env-default:"0.5"`
	VerifyURL string        `env:"RECAPTCHA_VERIFY_URL" env-default:"https://www.google.com/recaptcha/api/siteverify"`
	Timeout   time.Duration `env:"RECAPTCHA_TIMEOUT" env-default:"5s"`
}

func (r Recaptcha) Enabled() bool {
	return r.Secret != ""
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance, empty sends notifications inline"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"20" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: 10.0.0.1:7000,10.0.0.2:7001"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"20" env-description:"max tcp connections pool size"`
	}
}

// Enabled reports whether a redis endpoint is configured for the
// notification queue.
func (c Cache) Enabled() bool {
	return c.Redis.Address != "" || len(c.RedisCluster.Addresses) > 0
}

// MustLoad reads the config from the environment, or from the file named by
// CONFIG_PATH when set (.env, yaml, toml and json are supported).
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
