package configs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Postgres `mapstructure:"postgres"`
	Line     `mapstructure:"line"`
	LiteLLM  `mapstructure:"litellm"`
	Session  `mapstructure:"session"`
	Chat     `mapstructure:"chat"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// Line struct
type Line struct {
	ChannelSecret string   `mapstructure:"channel_secret"`
	ChannelToken  string   `mapstructure:"channel_token"`
	ApprovedUsers []string `mapstructure:"approved_users"`
	// RateLimit is prompts per minute per user, 0 disables it
	RateLimit int `mapstructure:"rate_limit"`
	RateBurst int `mapstructure:"rate_burst"`
}

// LiteLLM struct - model gateway connection and the initial runtime model settings.
// Timeouts are in seconds; zero values are replaced by adapter defaults.
type LiteLLM struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	Temperature         string `mapstructure:"temperature"`
	ReachabilityTimeout int    `mapstructure:"reachability_timeout"`
	Timeout             int    `mapstructure:"timeout"`
	ChatTimeout         int    `mapstructure:"chat_timeout"`
	MaxRetries          int    `mapstructure:"max_retries"`
}

// Session struct
type Session struct {
	Driver    string `mapstructure:"driver"`
	DefaultID string `mapstructure:"default_id"`
}

// Chat struct
type Chat struct {
	Context string `mapstructure:"context"`
}

const (
	// SessionDriverMemory keeps chat history in process memory
	SessionDriverMemory = "memory"
	// SessionDriverPostgres keeps chat history in the postgres database
	SessionDriverPostgres = "postgres"
)

var config Config

// InitViper func
func InitViper(path, env string) {
	loadDotEnv(path, env)
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

// loadDotEnv loads .env and .env.<env> files if present. Variables already set
// in the process environment win.
func loadDotEnv(path, env string) {
	files := []string{filepath.Join(path, "..", ".env")}
	if env != "" {
		files = append([]string{filepath.Join(path, "..", ".env."+env)}, files...)
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.Warnf("Failed to load env file %s: %v", f, err)
		}
	}
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// the gateway credential is commonly provisioned as an OpenAI key
	_ = viper.BindEnv("litellm.api_key", "LITELLM_API_KEY", "OPENAI_API_KEY")
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	if env != "" {
		viper.Set("app.env", env)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		logrus.Infof("Config file has changed: %s", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		logrus.Fatalln(err)
	}
}
