package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Transport names for the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Toggl     TogglConfig  `yaml:"toggl"`
	Transport string       `yaml:"transport"`
	Server    ServerConfig `yaml:"server"`
	Report    ReportConfig `yaml:"report"`
	Log       LogConfig    `yaml:"log"`
}

type TogglConfig struct {
	// APIToken is never read from the YAML file, only from the
	// environment, so tokens stay out of checked-in config.
	APIToken    string `yaml:"-"`
	WorkspaceID int64  `yaml:"workspace_id"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ReportConfig struct {
	// LaborCostShare is the fraction of the billing rate assumed to be
	// labor cost, between 0 and 1 exclusive.
	LaborCostShare float64 `yaml:"labor_cost_share"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment variables win.
func Load() (Config, error) {
	cfg := Config{
		Transport: TransportStdio,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Report: ReportConfig{
			LaborCostShare: 0.6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TOGGL_MCP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// The token is optional here. The server starts without one and the
	// readiness check answers tool calls until it is configured.
	cfg.Toggl.APIToken = os.Getenv("TOGGL_API_TOKEN")

	if transport := os.Getenv("TOGGL_MCP_TRANSPORT"); transport != "" {
		cfg.Transport = transport
	}
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return Config{}, fmt.Errorf("invalid transport %q, expected %q or %q", cfg.Transport, TransportStdio, TransportHTTP)
	}

	if host := os.Getenv("TOGGL_MCP_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TOGGL_MCP_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOGGL_MCP_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if wsStr := os.Getenv("TOGGL_MCP_WORKSPACE_ID"); wsStr != "" {
		ws, err := strconv.ParseInt(wsStr, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOGGL_MCP_WORKSPACE_ID: %w", err)
		}
		cfg.Toggl.WorkspaceID = ws
	}
	if shareStr := os.Getenv("TOGGL_MCP_LABOR_COST_RATE"); shareStr != "" {
		share, err := strconv.ParseFloat(shareStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOGGL_MCP_LABOR_COST_RATE: %w", err)
		}
		cfg.Report.LaborCostShare = share
	}
	if cfg.Report.LaborCostShare <= 0 || cfg.Report.LaborCostShare >= 1 {
		return Config{}, fmt.Errorf("labor cost share %v out of range (0, 1)", cfg.Report.LaborCostShare)
	}
	if level := os.Getenv("TOGGL_MCP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("TOGGL_MCP_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
