// Package config loads process settings from defaults, an optional file and
// ARCHERS_* environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so ssh.port is read
// from ARCHERS_SSH_PORT.
const EnvPrefix = "ARCHERS"

// Settings is the full process configuration.
type Settings struct {
	SSH         SSHSettings         `mapstructure:"ssh"`
	Web         WebSettings         `mapstructure:"web"`
	Log         LogSettings         `mapstructure:"log"`
	Sound       SoundSettings       `mapstructure:"sound"`
	Leaderboard LeaderboardSettings `mapstructure:"leaderboard"`
	Game        GameSettings        `mapstructure:"game"`
}

type SSHSettings struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	HostKeyPath string `mapstructure:"host_key"`
	DisplayHost string `mapstructure:"display_host"`
}

// Addr joins host and port.
func (s SSHSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type WebSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s WebSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	// File receives the local game's log, which cannot share the terminal.
	File string `mapstructure:"file"`
}

// SoundSettings only applies to the local game; SSH sessions are silent.
type SoundSettings struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// Leaderboard backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type LeaderboardSettings struct {
	Backend  string `mapstructure:"backend"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
	Size     int    `mapstructure:"size"`
}

type GameSettings struct {
	// Seed fixes level generation and AI rolls. Zero means time-seeded.
	Seed int64 `mapstructure:"seed"`
	// StartLevel lets a session skip ahead, mostly for testing late levels.
	StartLevel int `mapstructure:"start_level"`
}

var defaults = map[string]any{
	"ssh.host":             "::",
	"ssh.port":             2222,
	"ssh.host_key":         "/app/keys/host_key",
	"ssh.display_host":     "your-server.com",
	"web.host":             "0.0.0.0",
	"web.port":             8080,
	"log.level":            "info",
	"log.file":             "",
	"sound.enabled":        true,
	"sound.volume":         0.5,
	"leaderboard.backend":  BackendMemory,
	"leaderboard.addr":     "localhost:6379",
	"leaderboard.password": "",
	"leaderboard.db":       0,
	"leaderboard.key":      "archers:honor",
	"leaderboard.size":     10,
	"game.seed":            0,
	"game.start_level":     1,
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Path returns the config file named by ARCHERS_CONFIG, or "" for none.
func Path() string {
	return GetEnv(EnvPrefix+"_CONFIG", "")
}

// Load reads settings. An empty path skips the file and uses defaults plus
// the environment.
func Load(path string) (Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	switch s.Leaderboard.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown leaderboard backend %q", s.Leaderboard.Backend)
	}
	if s.Sound.Volume < 0 || s.Sound.Volume > 1 {
		return fmt.Errorf("sound volume %v outside [0, 1]", s.Sound.Volume)
	}
	if s.Leaderboard.Size < 0 {
		return fmt.Errorf("leaderboard size %d is negative", s.Leaderboard.Size)
	}
	return nil
}
