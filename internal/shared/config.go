package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Cache       CacheConfig       `toml:"cache"`
	Server      ServerConfig      `toml:"server"`
	Client      ClientConfig      `toml:"client"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend    string `toml:"backend"` // memory, sqlite or redis
	SQLitePath string `toml:"sqlite_path"`
	RedisAddr  string `toml:"redis_addr"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientConfig contains Spotify client tuning knobs.
type ClientConfig struct {
	RateLimit float64 `toml:"rate_limit"` // requests/sec for bulk chunks, 0 disables
}

// LoadConfig reads and parses a TOML configuration file from the specified path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overlays process environment variables onto the config.
// The environment wins over the TOML file so deployments can keep secrets out of it.
func (c *Config) applyEnv() {
	c.Credentials.Spotify.ClientID = env.GetString("SPOTIFY_CLIENT_ID", c.Credentials.Spotify.ClientID)
	c.Credentials.Spotify.ClientSecret = env.GetString("SPOTIFY_CLIENT_SECRET", c.Credentials.Spotify.ClientSecret)
	c.Credentials.Spotify.RedirectURI = env.GetString("SPOTIFY_REDIRECT_URI", c.Credentials.Spotify.RedirectURI)
	c.Cache.Backend = env.GetString("SPOTDASH_CACHE_BACKEND", c.Cache.Backend)
	c.Cache.SQLitePath = env.GetString("SPOTDASH_CACHE_SQLITE_PATH", c.Cache.SQLitePath)
	c.Cache.RedisAddr = env.GetString("SPOTDASH_CACHE_REDIS_ADDR", c.Cache.RedisAddr)
}

// LoadDotenv loads a .env file into the process environment if one exists.
// Missing files are not an error.
func LoadDotenv(path string) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
