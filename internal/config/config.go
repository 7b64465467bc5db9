package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Board     BoardConfig     `mapstructure:"board"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

// DatabaseConfig selects and configures the SQL backend for
// internal/history. Driver chooses which gorm dialector to open; dsn is
// passed straight through to it.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres, mysql, sqlite
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BoardConfig describes the board loaded at startup. GET /reset does not
// read DefaultFile; it loads the file named by its filename query parameter.
type BoardConfig struct {
	DefaultFile      string `mapstructure:"defaultFile"`
	ReshuffleOnReset bool   `mapstructure:"reshuffleOnReset"`
}

// WebSocketConfig tunes the gorilla/websocket upgrader used by internal/ws.
type WebSocketConfig struct {
	ReadBufferSize  int `mapstructure:"readBufferSize"`
	WriteBufferSize int `mapstructure:"writeBufferSize"`
	PingIntervalSec int `mapstructure:"pingIntervalSec"`
}

var GlobalConfig *Config

func LoadConfig(path string) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	GlobalConfig = &cfg
}
