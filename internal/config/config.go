package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Recognized settings keys.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvRefreshToken = "GOOGLE_REFRESH_TOKEN"
	EnvRootFolderID = "GOOGLE_DRIVE_FOLDER_ID"
)

const (
	envFileName        = ".env"
	envExampleFileName = ".env.example"
)

// Config holds the credentials for one diagnostic run.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// RootFolderID is optional
	RootFolderID string

	// Source is the settings file that was loaded, empty when only the
	// process environment was used.
	Source string

	// FromExample is true when Source is an example file rather than a real one.
	FromExample bool
}

// Missing returns the mandatory keys that have no value, in a stable order.
func (c *Config) Missing() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.RefreshToken == "" {
		missing = append(missing, EnvRefreshToken)
	}
	return missing
}

// Complete reports whether all mandatory values are present.
func (c *Config) Complete() bool {
	return len(c.Missing()) == 0
}

// HasRootFolder reports whether a root folder is configured.
func (c *Config) HasRootFolder() bool {
	return c.RootFolderID != ""
}

// Candidates returns the settings files searched for dir, in priority order:
// the directory itself first, then its parent.
func Candidates(dir string) []string {
	parent := filepath.Dir(filepath.Clean(dir))
	return []string{
		filepath.Join(dir, envFileName),
		filepath.Join(dir, envExampleFileName),
		filepath.Join(parent, envFileName),
		filepath.Join(parent, envExampleFileName),
	}
}

// Loader reads a Config from settings files and the environment.
type Loader struct {
	// Dir is the directory the candidate search starts from.
	Dir string

	// File, when set, is the only settings file considered.
	File string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load locates the first existing settings file and populates a Config.
// A missing settings file is not an error; an unreadable or malformed one is.
func (l *Loader) Load() (*Config, error) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	path, err := l.find()
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if path != "" {
		values, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(values[key])
	}

	return &Config{
		ClientID:     get(EnvClientID),
		ClientSecret: get(EnvClientSecret),
		RefreshToken: get(EnvRefreshToken),
		RootFolderID: get(EnvRootFolderID),
		Source:       path,
		FromExample:  path != "" && filepath.Base(path) == envExampleFileName,
	}, nil
}

func (l *Loader) find() (string, error) {
	if l.File != "" {
		if _, err := os.Stat(l.File); err != nil {
			return "", fmt.Errorf("settings file %s: %w", l.File, err)
		}
		return l.File, nil
	}

	dir := l.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}

	for _, candidate := range Candidates(dir) {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
	}

	return "", nil
}
