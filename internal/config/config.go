package config

import (
	"flag"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const PlatformMaxTickets = 10000

type Config struct {
	Address  string `env:"RUN_ADDRESS"  envDefault:"localhost:8080"`
	Database string `env:"DATABASE_URI" envDefault:""`
	LogLvl   string `env:"LOG_LVL"      envDefault:"info"`
	LogFile  string `env:"LOG_FILE"     envDefault:""`

	JWTSecret  string `env:"JWT_SECRET"  envDefault:"your-secret-key"`
	MaxTickets int    `env:"MAX_TICKETS" envDefault:"10000"`

	RedisAddr     string `env:"REDIS_ADDR"     envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`

	TelegramToken     string `env:"TELEGRAM_TOKEN"      envDefault:""`
	TelegramAdminChat int64  `env:"TELEGRAM_ADMIN_CHAT" envDefault:"0"`
	WebhookURL        string `env:"NOTIFY_WEBHOOK_URL"  envDefault:""`
	NotifyWorkers     int    `env:"NOTIFY_WORKERS"      envDefault:"4"`
}

func New() *Config {
	cfg := &Config{}

	// .env is optional, real environment wins over it
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	env.Parse(cfg)

	flag.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	flag.StringVar(&cfg.Database, "d", cfg.Database, "database DSN, empty for in-memory storage")
	flag.StringVar(&cfg.LogLvl, "l", cfg.LogLvl, "log level")
	flag.StringVar(&cfg.LogFile, "f", cfg.LogFile, "rotating log file path")
	flag.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for distributed locks")
	flag.IntVar(&cfg.MaxTickets, "m", cfg.MaxTickets, "platform ticket limit per raffle")
	flag.Parse()

	if cfg.MaxTickets <= 0 || cfg.MaxTickets > PlatformMaxTickets {
		cfg.MaxTickets = PlatformMaxTickets
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 1
	}
	if cfg.WebhookURL != "" && !strings.HasPrefix(cfg.WebhookURL, "http://") && !strings.HasPrefix(cfg.WebhookURL, "https://") {
		cfg.WebhookURL = "http://" + cfg.WebhookURL
	}

	return cfg
}
