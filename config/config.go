// Package config reads command defaults from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvBaseDir           = "PROPDEFS_BASEDIR"
	EnvBaseID            = "PROPDEFS_BASEID"
	EnvRemoveNull        = "PROPDEFS_REMOVE_NULL"
	EnvCleanInnerSchemas = "PROPDEFS_CLEAN_INNER_SCHEMAS"
	EnvTimeout           = "PROPDEFS_TIMEOUT"

	DefaultEnvFile = ".env"
)

type Config struct {
	BaseDir           string
	BaseID            string
	RemoveNull        bool
	CleanInnerSchemas bool
	Timeout           time.Duration
}

// Load reads envFile into the process environment, without overriding
// variables already set, and then builds a Config from the environment.
// A missing envFile is not an error when it is the default.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if envFile != DefaultEnvFile || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		BaseDir: strings.TrimSpace(os.Getenv(EnvBaseDir)),
		BaseID:  strings.TrimSpace(os.Getenv(EnvBaseID)),
	}
	var err error
	if cfg.RemoveNull, err = envBool(EnvRemoveNull); err != nil {
		return nil, err
	}
	if cfg.CleanInnerSchemas, err = envBool(EnvCleanInnerSchemas); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		cfg.Timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		if cfg.Timeout < 0 {
			return nil, fmt.Errorf("%s: negative timeout %s", EnvTimeout, raw)
		}
	}
	return cfg, nil
}

func envBool(name string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
