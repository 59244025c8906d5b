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

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只写 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
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

// Notify 通知侧配置。AdminIDs 是运营侧抄送名单（原系统里写死的
// 管理员收件人改成配置项）；为空则不抄送。
type Notify struct {
	AdminIDs        []string `mapstructure:"admin_ids"`
	UnreadTTLMin    int      `mapstructure:"unread_ttl_min"`
	RetentionDays   int      `mapstructure:"retention_days"`
	DashboardTTLSec int      `mapstructure:"dashboard_ttl_sec"`
}

type Suggest struct {
	Limit int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Notify  Notify
	Suggest Suggest
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
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Suggest.Limit <= 0 {
		c.Suggest.Limit = 10
	}
	if c.Notify.UnreadTTLMin <= 0 {
		c.Notify.UnreadTTLMin = 60
	}
	if c.Notify.DashboardTTLSec <= 0 {
		c.Notify.DashboardTTLSec = 15
	}
	if c.Notify.RetentionDays <= 0 {
		c.Notify.RetentionDays = 90
	}
}
