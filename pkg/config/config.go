package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	JWT    JWTConfig    `yaml:"jwt"`
	Mail   MailConfig   `yaml:"mail"`
	App    AppConfig    `yaml:"app"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// MailConfig drives the outbound mail transport. An empty APIKey selects
// dry mode: delivery attempts are logged as sent without network contact.
type MailConfig struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
	From   string `yaml:"from"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
}

// OverrideFromEnv applies environment overrides on top of the YAML file.
// Env always wins so deployments can keep secrets out of config files.
func (c *Config) OverrideFromEnv() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_MODE"); v != "" {
		c.Server.LogMode = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.DB.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.DB.Name = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MQ_URL"); v != "" {
		c.MQ.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("MAIL_API_KEY"); v != "" {
		c.Mail.APIKey = v
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		c.Mail.From = v
	}
	if v := os.Getenv("APP_BASE_URL"); v != "" {
		c.App.BaseURL = v
	}
}
