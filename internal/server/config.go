package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FileConfig is the HCL configuration file layout. Both blocks are
// optional; whatever is present overrides the defaults.
type FileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings defines the room hosted by this server.
type TableSettings struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips"`
	MaxRounds     int    `hcl:"max_rounds,optional"`
	MinPlayers    int    `hcl:"min_players,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
}

// Config is the resolved runtime configuration for the room server.
type Config struct {
	Address    string
	Port       int
	LogLevel   string
	Table      TableSettings
	StartDelay time.Duration
	RoundDelay time.Duration
	Seed       int64
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Address:  "localhost",
		Port:     8080,
		LogLevel: "info",
		Table: TableSettings{
			Name:          "main",
			SmallBlind:    10,
			BigBlind:      20,
			StartingChips: 1000,
			MinPlayers:    2,
			MaxPlayers:    6,
		},
		StartDelay: 5 * time.Second,
		RoundDelay: 3 * time.Second,
	}
}

// LoadConfig reads an HCL configuration file over the defaults. A missing
// file is not an error; flags and environment still apply on top.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("parsing %s: %s", filename, diags.Error())
	}

	var raw FileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return cfg, fmt.Errorf("decoding %s: %s", filename, diags.Error())
	}

	if raw.Server != nil {
		if raw.Server.Address != "" {
			cfg.Address = raw.Server.Address
		}
		if raw.Server.Port != 0 {
			cfg.Port = raw.Server.Port
		}
		if raw.Server.LogLevel != "" {
			cfg.LogLevel = raw.Server.LogLevel
		}
	}
	if raw.Table != nil {
		if raw.Table.MinPlayers == 0 {
			raw.Table.MinPlayers = cfg.Table.MinPlayers
		}
		if raw.Table.MaxPlayers == 0 {
			raw.Table.MaxPlayers = cfg.Table.MaxPlayers
		}
		cfg.Table = *raw.Table
	}
	return cfg, nil
}
