// Package config loads tool configuration from a JSON or YAML file.
// Every value can be overridden per-run from the command line; the file
// only provides defaults so recurring parameters (token, project code,
// field names) don't have to be retyped.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// DefaultPath is tried when no --config flag is given.
const DefaultPath = "config.json"

// Config holds file-level defaults for all subcommands. Zero values mean
// "not set"; resolution against CLI flags happens in the command layer.
type Config struct {
	APIToken    string `json:"api_token" yaml:"api_token"`
	ProjectCode string `json:"project_code" yaml:"project_code"`
	BaseURL     string `json:"base_url" yaml:"base_url"`

	// Field migration defaults.
	SourceField        string `json:"source_field" yaml:"source_field"`
	DestinationField   string `json:"destination_field" yaml:"destination_field"`
	DestinationFieldID int    `json:"destination_field_id" yaml:"destination_field_id"`

	// JIRA linking defaults.
	JiraRefsField     string `json:"jira_refs_field" yaml:"jira_refs_field"`
	JiraRefsFieldID   int    `json:"jira_refs_field_id" yaml:"jira_refs_field_id"`
	ExternalIssueType string `json:"external_issue_type" yaml:"external_issue_type"`
	BatchSize         int    `json:"batch_size" yaml:"batch_size"`

	// CSV field import defaults.
	CSVField   string `json:"csv_field" yaml:"csv_field"`
	CSVFieldID int    `json:"csv_field_id" yaml:"csv_field_id"`
	CSVColumn  string `json:"csv_column" yaml:"csv_column"`
}

// LoadFromPath reads a config file (JSON or YAML) and returns the parsed
// Config. Format is detected by extension (.yaml/.yml → YAML, .json →
// JSON) or by content (first non-whitespace char).
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// LoadOptional behaves like LoadFromPath but returns an empty Config when
// the file does not exist. Used for the default config path, which is
// allowed to be absent.
func LoadOptional(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses config from bytes. ext is the file extension (e.g. ".json",
// ".yaml") for format hint; empty = detect from content.
func Load(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == ".yaml" {
		var c Config
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
		return &c, nil
	}
	if ext == ".json" {
		var c Config
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return &c, nil
	}
	// Detect: try JSON first (starts with {), else YAML
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var c Config
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return &c, nil
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &c, nil
}
