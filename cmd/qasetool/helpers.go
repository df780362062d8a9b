package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"qasetool/internal/config"
	"qasetool/internal/logging"
	"qasetool/internal/qase"
)

const clientTimeout = 60 * time.Second

// loadConfigFile reads the config file. An explicit --config path must
// exist; the default path is allowed to be absent.
func loadConfigFile() (*config.Config, error) {
	if rootFlags.configPath != "" {
		return config.LoadFromPath(rootFlags.configPath)
	}
	return config.LoadOptional(config.DefaultPath)
}

// newClient builds a Qase client from flags and config. Flags win over
// the config file.
func newClient(cfg *config.Config) (*qase.Client, error) {
	token := rootFlags.token
	if token == "" {
		token = cfg.APIToken
	}
	if token == "" {
		return nil, fmt.Errorf("API token is required: pass --token or set api_token in the config file")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = qase.DefaultBaseURL
	}

	return qase.New(baseURL, token,
		qase.WithLogger(logging.New("qase")),
		qase.WithTimeout(clientTimeout),
	)
}

// resolveProject returns the project code from flags or config.
func resolveProject(cfg *config.Config) (string, error) {
	if rootFlags.project != "" {
		return rootFlags.project, nil
	}
	if cfg.ProjectCode != "" {
		return cfg.ProjectCode, nil
	}
	return "", fmt.Errorf("project code is required: pass --project or set project_code in the config file")
}

// confirm asks the user a yes/no question and only accepts a literal
// "yes". Anything else cancels.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s (yes/no): ", prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(scanner.Text()), "yes")
}
