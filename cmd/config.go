package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config structure for YAML configuration
type Config struct {
	Index struct {
		File    string  `yaml:"file"`
		Blocks  int     `yaml:"blocks"`
		Offset  float64 `yaml:"offset"`
		YOffset float64 `yaml:"y_offset"`
	} `yaml:"index"`
	Query struct {
		Random int     `yaml:"random"`
		Seed   int64   `yaml:"seed"`
		Margin float64 `yaml:"margin"`
		Scale  float64 `yaml:"scale"`
	} `yaml:"query"`
	PostGIS struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"postgis"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Index.File = "polygon_index.gob"
	cfg.Index.Blocks = 1
	cfg.Index.Offset = 5
	cfg.Query.Random = 50000
	cfg.Query.Seed = 1
	cfg.Query.Margin = 1
	cfg.Query.Scale = 1
	cfg.PostGIS.Host = "localhost"
	cfg.PostGIS.Port = 5432
	cfg.PostGIS.User = "postgres"
	cfg.PostGIS.Database = "polygons"
	return cfg
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// loadEnv lets PG_* variables, optionally from a .env file, override the
// database section of the config.
func loadEnv(cfg *Config, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if v := os.Getenv("PG_HOST"); v != "" {
		cfg.PostGIS.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PG_PORT %q: %w", v, err)
		}
		cfg.PostGIS.Port = port
	}
	if v := os.Getenv("PG_USER"); v != "" {
		cfg.PostGIS.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		cfg.PostGIS.Password = v
	}
	if v := os.Getenv("PG_DATABASE"); v != "" {
		cfg.PostGIS.Database = v
	}
	return nil
}

// applyConfig copies config values into flags the user did not set
func applyConfig(cmd *cobra.Command, cfg Config) {
	flags := cmd.Flags()
	if !flags.Changed("file") {
		indexFile = cfg.Index.File
	}
	if !flags.Changed("blocks") {
		numBlocks = cfg.Index.Blocks
	}
	if !flags.Changed("offset") {
		xOffset = cfg.Index.Offset
	}
	if !flags.Changed("y-offset") {
		yOffset = cfg.Index.YOffset
	}
	if !flags.Changed("random") {
		numRandom = cfg.Query.Random
	}
	if !flags.Changed("seed") {
		seed = cfg.Query.Seed
	}
	if !flags.Changed("margin") {
		margin = cfg.Query.Margin
	}
	if !flags.Changed("scale") {
		scale = cfg.Query.Scale
	}
}
