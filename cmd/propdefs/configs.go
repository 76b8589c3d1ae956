package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/scott-cotton/cli"
	"github.com/signadot/propdefs/config"
	"github.com/signadot/propdefs/directive"
	"github.com/signadot/propdefs/format"
)

type Config struct {
	Output      string `cli:"name=o aliases=output desc='write the output to a file (default stdout)'"`
	BaseDir     string `cli:"name=basedir desc='base directory relative to which $$inherit references are resolved'"`
	BaseID      string `cli:"name=baseid desc='base id relative to which $$inherit references are resolved'"`
	RemoveNull  bool   `cli:"name=remove-null desc='remove keys whose value is null'"`
	Clean       bool   `cli:"name=c aliases=clean-inner-schemas desc='remove $schema from inner mappings'"`
	ForceSchema string `cli:"name=force-schema desc='validate against this schema whether or not the output has $schema'"`
	Check       bool   `cli:"name=check desc='compare the output with the -o file and show a diff instead of writing'"`
	Verbose     bool   `cli:"name=v aliases=verbose desc='log progress'"`
	Quiet       bool   `cli:"name=q aliases=quiet desc='only log errors'"`
	Debug       bool   `cli:"name=d aliases=debug desc='debug logging and full error chains'"`
	Color       bool   `cli:"name=color desc='color diagnostics even when stderr is not a terminal'"`
	EnvFile     string `cli:"name=env desc='file with PROPDEFS_ environment defaults (default .env)'"`
	Indent      int    `cli:"name=indent desc='spaces per nesting level (default 4 for json, 2 for yaml)'"`

	InFormat  format.Format
	OutFormat format.Format
	Subs      directive.Substitutions
	Schemas   []string
	Timeout   *time.Duration

	Main *cli.Command
}

func (cfg *Config) inFormatOpt(_ *cli.Context, v string) (any, error) {
	f, err := format.ParseFormat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if !f.IsAuto() && !f.IsInput() {
		return nil, fmt.Errorf("%w: cannot read %s", cli.ErrUsage, f)
	}
	cfg.InFormat = f
	return f, nil
}

func (cfg *Config) outFormatOpt(_ *cli.Context, v string) (any, error) {
	f, err := format.ParseFormat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.OutFormat = f
	return f, nil
}

func (cfg *Config) subOpt(_ *cli.Context, v string) (any, error) {
	s, err := directive.ParseSubstitution(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Subs = append(cfg.Subs, s)
	return s, nil
}

func (cfg *Config) schemaOpt(_ *cli.Context, v string) (any, error) {
	cfg.Schemas = append(cfg.Schemas, v)
	return v, nil
}

func (cfg *Config) timeoutOpt(_ *cli.Context, v string) (any, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("%w: negative timeout %s", cli.ErrUsage, v)
	}
	cfg.Timeout = &d
	return d, nil
}

// applyEnv fills in what the command line left unset from env.
func (cfg *Config) applyEnv(env *config.Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = env.BaseDir
	}
	if cfg.BaseID == "" {
		cfg.BaseID = env.BaseID
	}
	cfg.RemoveNull = cfg.RemoveNull || env.RemoveNull
	cfg.Clean = cfg.Clean || env.CleanInnerSchemas
	if cfg.Timeout == nil {
		t := env.Timeout
		cfg.Timeout = &t
	}
}

// outputFormat resolves -f auto against the -o extension.
func (cfg *Config) outputFormat() (format.Format, error) {
	if !cfg.OutFormat.IsAuto() {
		return cfg.OutFormat, nil
	}
	if cfg.Output == "" {
		return format.JSONFormat, nil
	}
	f, ok := format.FromExtension(cfg.Output)
	if !ok {
		return 0, fmt.Errorf("%w: output format cannot be determined, use -f. Output file extension: %q", cli.ErrUsage, filepath.Ext(cfg.Output))
	}
	return f, nil
}

func (cfg *Config) timeout() time.Duration {
	if cfg.Timeout == nil {
		return 0
	}
	return *cfg.Timeout
}
