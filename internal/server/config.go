package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/partybots/internal/blackjack"
	"github.com/lox/partybots/internal/mafia"
)

// Config represents the complete server configuration
type Config struct {
	Server    ServerSettings     `hcl:"server,block"`
	Mafia     *MafiaSettings     `hcl:"mafia,block"`
	Blackjack *BlackjackSettings `hcl:"blackjack,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address      string `hcl:"address,optional"`
	Port         int    `hcl:"port,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	DatabasePath string `hcl:"database_path,optional"`
}

// MafiaSettings tunes the social-deduction game.
type MafiaSettings struct {
	MinPlayers   int `hcl:"min_players,optional"`
	MaxPlayers   int `hcl:"max_players,optional"`
	NightSeconds int `hcl:"night_seconds,optional"`
	DaySeconds   int `hcl:"day_seconds,optional"`
}

// BlackjackSettings tunes the card game.
type BlackjackSettings struct {
	// DeckMode is "normal" or "biased". Biased decks favour the house
	// and stack player starting hands toward 12-17.
	DeckMode string `hcl:"deck_mode,optional"`
	// Approval is "auto" or "manual". Manual tables queue doubles and
	// splits for an explicit approve/deny.
	Approval string `hcl:"approval,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:      "localhost",
			Port:         8080,
			LogLevel:     "info",
			DatabasePath: "partybots.db",
		},
		Mafia: &MafiaSettings{
			MinPlayers:   mafia.MinPlayers,
			MaxPlayers:   mafia.MaxPlayers,
			NightSeconds: 180,
			DaySeconds:   300,
		},
		Blackjack: &BlackjackSettings{
			DeckMode: "normal",
			Approval: "auto",
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Server.DatabasePath == "" {
		c.Server.DatabasePath = def.Server.DatabasePath
	}
	if c.Mafia == nil {
		c.Mafia = def.Mafia
	}
	if c.Mafia.MinPlayers == 0 {
		c.Mafia.MinPlayers = def.Mafia.MinPlayers
	}
	if c.Mafia.MaxPlayers == 0 {
		c.Mafia.MaxPlayers = def.Mafia.MaxPlayers
	}
	if c.Mafia.NightSeconds == 0 {
		c.Mafia.NightSeconds = def.Mafia.NightSeconds
	}
	if c.Mafia.DaySeconds == 0 {
		c.Mafia.DaySeconds = def.Mafia.DaySeconds
	}
	if c.Blackjack == nil {
		c.Blackjack = def.Blackjack
	}
	if c.Blackjack.DeckMode == "" {
		c.Blackjack.DeckMode = def.Blackjack.DeckMode
	}
	if c.Blackjack.Approval == "" {
		c.Blackjack.Approval = def.Blackjack.Approval
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Mafia.MinPlayers < mafia.MinPlayers {
		return fmt.Errorf("mafia min_players %d is below the smallest supported roster %d", c.Mafia.MinPlayers, mafia.MinPlayers)
	}
	if c.Mafia.MaxPlayers > mafia.MaxPlayers {
		return fmt.Errorf("mafia max_players %d is above the largest supported roster %d", c.Mafia.MaxPlayers, mafia.MaxPlayers)
	}
	if c.Mafia.MinPlayers > c.Mafia.MaxPlayers {
		return fmt.Errorf("mafia min_players %d exceeds max_players %d", c.Mafia.MinPlayers, c.Mafia.MaxPlayers)
	}
	if c.Mafia.NightSeconds <= 0 || c.Mafia.DaySeconds <= 0 {
		return fmt.Errorf("mafia phase durations must be positive")
	}
	if _, err := c.Blackjack.Mode(); err != nil {
		return err
	}
	if _, err := c.Blackjack.Policy(); err != nil {
		return err
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// MafiaConfig maps the settings onto the game engine's config.
func (c *Config) MafiaConfig() mafia.Config {
	return mafia.Config{
		MinPlayers:    c.Mafia.MinPlayers,
		MaxPlayers:    c.Mafia.MaxPlayers,
		NightDuration: time.Duration(c.Mafia.NightSeconds) * time.Second,
		DayDuration:   time.Duration(c.Mafia.DaySeconds) * time.Second,
	}
}

// Mode maps the deck_mode setting onto the engine's deck modes.
func (b *BlackjackSettings) Mode() (blackjack.DeckMode, error) {
	switch b.DeckMode {
	case "normal":
		return blackjack.DeckNormal, nil
	case "biased":
		return blackjack.DeckBiased, nil
	default:
		return 0, fmt.Errorf("invalid blackjack deck_mode: %q", b.DeckMode)
	}
}

// Policy maps the approval setting onto the engine's table policy.
func (b *BlackjackSettings) Policy() (blackjack.ApprovalPolicy, error) {
	switch b.Approval {
	case "auto":
		return blackjack.AutoApply, nil
	case "manual":
		return blackjack.RequireApproval, nil
	default:
		return 0, fmt.Errorf("invalid blackjack approval: %q", b.Approval)
	}
}
