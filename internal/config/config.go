// Package config implements the configuration layer the CLI's flags sit
// on top of (spec §10.2): an optional YAML settings file and environment
// variables, both supplying defaults for --source/--input beneath whatever
// the command line gave explicitly.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// FileConfig is both the shape of the optional YAML settings file and the
// struct environment variables are parsed into, so the two layers share one
// set of field names.
type FileConfig struct {
	Source string `yaml:"source" env:"IPPVM_SOURCE"`
	Input  string `yaml:"input" env:"IPPVM_INPUT"`
}

// Resolve applies the precedence of spec §10.2: explicit flag values win;
// otherwise the YAML file at configPath (if any) is consulted; otherwise
// the IPPVM_SOURCE/IPPVM_INPUT environment variables. A field that no layer
// supplies is returned empty, which the caller treats as "read from
// standard input".
func Resolve(flagSource, flagInput, configPath string) (source, input string, err error) {
	source, input = flagSource, flagInput

	var fileCfg FileConfig
	if configPath != "" {
		data, rerr := os.ReadFile(configPath)
		if rerr != nil {
			return "", "", fmt.Errorf("reading config file %s: %w", configPath, rerr)
		}
		if yerr := yaml.Unmarshal(data, &fileCfg); yerr != nil {
			return "", "", fmt.Errorf("parsing config file %s: %w", configPath, yerr)
		}
	}

	var envCfg FileConfig
	if perr := env.Parse(&envCfg); perr != nil {
		return "", "", fmt.Errorf("reading environment configuration: %w", perr)
	}

	if source == "" {
		source = fileCfg.Source
	}
	if source == "" {
		source = envCfg.Source
	}
	if input == "" {
		input = fileCfg.Input
	}
	if input == "" {
		input = envCfg.Input
	}
	return source, input, nil
}
