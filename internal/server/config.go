package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server   ServerSettings
	Game     GameSettings
	Database DatabaseSettings
}

// serverConfigHCL is the on-disk shape. Blocks are pointers so any of
// them may be omitted from the file.
type serverConfigHCL struct {
	Server   *ServerSettings   `hcl:"server,block"`
	Game     *GameSettings     `hcl:"game,block"`
	Database *DatabaseSettings `hcl:"database,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the table rules applied to every room
type GameSettings struct {
	SmallBlind        int `hcl:"small_blind,optional"`
	BigBlind          int `hcl:"big_blind,optional"`
	StartingStack     int `hcl:"starting_stack,optional"`
	MaxPlayers        int `hcl:"max_players,optional"`
	NextHandDelaySecs int `hcl:"next_hand_delay_seconds,optional"`
}

// DatabaseSettings configures the optional audit database
type DatabaseSettings struct {
	Enabled bool   `hcl:"enabled,optional"`
	DSN     string `hcl:"dsn,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			SmallBlind:        10,
			BigBlind:          20,
			StartingStack:     2000,
			MaxPlayers:        6,
			NextHandDelaySecs: 15,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var parsed serverConfigHCL
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := &ServerConfig{}
	if parsed.Server != nil {
		config.Server = *parsed.Server
	}
	if parsed.Game != nil {
		config.Game = *parsed.Game
	}
	if parsed.Database != nil {
		config.Database = *parsed.Database
	}

	// Apply defaults for missing values
	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = defaults.Game.BigBlind
	}
	if config.Game.StartingStack == 0 {
		config.Game.StartingStack = defaults.Game.StartingStack
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = defaults.Game.MaxPlayers
	}
	if config.Game.NextHandDelaySecs == 0 {
		config.Game.NextHandDelaySecs = defaults.Game.NextHandDelaySecs
	}

	return config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Game.StartingStack < c.Game.BigBlind*10 {
		return fmt.Errorf("starting stack must cover at least 10 big blinds")
	}
	if c.Game.MaxPlayers < 2 || c.Game.MaxPlayers > 10 {
		return fmt.Errorf("max players must be between 2 and 10")
	}
	if c.Game.NextHandDelaySecs < 0 {
		return fmt.Errorf("next hand delay must not be negative")
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database enabled but no dsn configured")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// NextHandDelay returns the pause between hands as a duration
func (c *ServerConfig) NextHandDelay() time.Duration {
	return time.Duration(c.Game.NextHandDelaySecs) * time.Second
}
