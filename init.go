package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml"

	"github.com/Yamashou/uibindgen/config"
)

// InitCmd scaffolds a config file with every default spelled out.
type InitCmd struct {
	Framework string `arg:"" help:"Import path of the UI framework package."`
	Format    string `help:"Output format." enum:"yaml,toml" default:"yaml"`
	Output    string `help:"Destination file. Defaults to .uibindgen.yml or uibindgen.toml in the working directory." type:"path"`
	Force     bool   `help:"Overwrite the destination if it exists."`
}

func (c *InitCmd) Run(logger *slog.Logger) error {
	data, err := configTemplate(c.Framework, c.Format)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = ".uibindgen.yml"
		if c.Format == "toml" {
			dest = "uibindgen.toml"
		}
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%s exists; use --force to overwrite", dest)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.Info("wrote config", "file", dest)
	return nil
}

// configTemplate renders the default config for framework in format.
func configTemplate(framework, format string) ([]byte, error) {
	cfg := config.Default(framework)
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	enabled, strict := true, true
	cfg.TraitGen.Enabled = &enabled
	cfg.ComponentGen.Enabled = &enabled
	cfg.ComponentGen.StrictScope = &strict

	switch format {
	case "yaml", "":
		return yaml.Marshal(cfg)
	case "toml":
		return toml.Marshal(*cfg)
	}
	return nil, errors.New("unsupported format: " + format)
}
