package client

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pebbles/internal/game"
)

// ClientConfig represents the complete client configuration
type ClientConfig struct {
	Server ServerConnection `hcl:"server,block"`
	Game   GameSettings     `hcl:"game,block"`
	UI     UISettings       `hcl:"ui,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL            string `hcl:"url,optional"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
	RequestTimeout int    `hcl:"request_timeout,optional"`
}

// GameSettings contains the parameters used for new games
type GameSettings struct {
	PebblesCount      int    `hcl:"pebbles_count,optional"`
	MaxPebblesPerTurn int    `hcl:"max_pebbles_per_turn,optional"`
	Difficulty        string `hcl:"difficulty,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConnection{
			URL:            "http://localhost:8080",
			ConnectTimeout: 10,
			RequestTimeout: 10,
		},
		Game: GameSettings{
			PebblesCount:      15,
			MaxPebblesPerTurn: 2,
			Difficulty:        "easy",
		},
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "pebbles-client.log",
		},
	}
}

// LoadClientConfig loads client configuration from HCL file
func LoadClientConfig(filename string) (*ClientConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultClientConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ClientConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultClientConfig()

	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Server.ConnectTimeout == 0 {
		config.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = defaults.Server.RequestTimeout
	}

	if config.Game.PebblesCount == 0 {
		config.Game.PebblesCount = defaults.Game.PebblesCount
	}
	if config.Game.MaxPebblesPerTurn == 0 {
		config.Game.MaxPebblesPerTurn = defaults.Game.MaxPebblesPerTurn
	}
	if config.Game.Difficulty == "" {
		config.Game.Difficulty = defaults.Game.Difficulty
	}

	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}

	return &config, nil
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if _, err := websocketURL(c.Server.URL); err != nil {
		return err
	}

	if c.Server.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	if _, err := c.GameConfig(); err != nil {
		return err
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// GameConfig converts the game block into a validated game.Config
func (c *ClientConfig) GameConfig() (game.Config, error) {
	if c.Game.PebblesCount <= 0 || c.Game.MaxPebblesPerTurn <= 0 {
		return game.Config{}, fmt.Errorf("%w: pebbles_count and max_pebbles_per_turn must be positive", game.ErrInvalidConfig)
	}
	if uint64(c.Game.PebblesCount) > math.MaxUint32 || uint64(c.Game.MaxPebblesPerTurn) > math.MaxUint32 {
		return game.Config{}, fmt.Errorf("%w: pebbles_count and max_pebbles_per_turn must not exceed %d", game.ErrInvalidConfig, uint32(math.MaxUint32))
	}

	difficulty, err := game.ParseDifficulty(c.Game.Difficulty)
	if err != nil {
		return game.Config{}, err
	}

	return game.Config{
		PebblesCount:      uint32(c.Game.PebblesCount),
		MaxPebblesPerTurn: uint32(c.Game.MaxPebblesPerTurn),
		Difficulty:        difficulty,
	}, nil
}

// GetConnectTimeout returns the connect timeout as a duration
func (c *ClientConfig) GetConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}

// GetRequestTimeout returns the request timeout as a duration
func (c *ClientConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}
