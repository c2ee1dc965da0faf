package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool

	// File enables rotation when set.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JWT struct {
	Secret              string
	Issuer              string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Storage struct {
	Dir string `mapstructure:"dir"`
}

type Cache struct {
	Enabled bool
	TTLSec  int
}

type Security struct {
	CSRFCheck bool `mapstructure:"csrf_check"`
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Storage  Storage
	Cache    Cache
	Security Security
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set (config file or APP_JWT_SECRET)")
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./photos"
	}
	return &c
}
