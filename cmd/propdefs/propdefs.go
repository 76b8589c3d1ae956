package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/propdefs/batch"
	"github.com/signadot/propdefs/config"
	"github.com/signadot/propdefs/directive"
	"github.com/signadot/propdefs/encode"
	"github.com/signadot/propdefs/fetch"
	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
	"github.com/signadot/propdefs/validate"
)

// errDiffers reports a -check run whose output differs from the file.
var errDiffers = errors.New("output differs")

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		cfg.Main.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("%w: negative -indent %d", cli.ErrUsage, cfg.Indent)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one source, got %d", cli.ErrUsage, len(args))
	}
	if cfg.Check && cfg.Output == "" {
		return fmt.Errorf("%w: -check requires -o", cli.ErrUsage)
	}
	env, err := config.Load(cfg.EnvFile)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.applyEnv(env)
	logLevel.Set(cfg.level())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = process(ctx, cfg, args[0], cc.Out, theLog)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errDiffers):
		return cli.ExitCodeErr(1)
	case errors.Is(err, cli.ErrUsage):
		return err
	}
	theLog.Debug("failed", "kind", stage.Kind(err))
	printErr(os.Stderr, err, cfg.Debug, useColor(cfg.Color, os.Stderr))
	return cli.ExitCodeErr(1)
}

// process runs source through loading, resolution, validation and
// serialization, then writes the result to -o or out.
func process(ctx context.Context, cfg *Config, source string, out io.Writer, log *slog.Logger) error {
	outFmt, err := cfg.outputFormat()
	if err != nil {
		return err
	}
	f, err := fetch.New(fetch.Options{
		InputFormat: cfg.InFormat,
		Timeout:     cfg.timeout(),
		Log:         log,
	})
	if err != nil {
		return err
	}
	eng := directive.New(f, cfg.Subs, directive.Options{
		OutputFormat:      outFmt,
		RemoveNull:        cfg.RemoveNull,
		CleanInnerSchemas: cfg.Clean,
		Log:               log,
	})
	proc := batch.New(f, eng, log)

	y, acc, err := proc.Run(ctx, source, directive.Base{ID: cfg.BaseID, Dir: cfg.BaseDir})
	if err != nil {
		return stage.Wrap(stage.Resolve, err, "processing of input failed")
	}
	if acc != nil {
		if n := len(acc.Collisions()); n != 0 {
			log.Warn("directory entries overwrote each other", "collisions", n)
		}
	}

	if err := validateOutput(ctx, cfg, f, y, log); err != nil {
		return stage.Wrap(stage.Validate, err, "validation of data failed")
	}

	log.Info("serializing", "format", outFmt)
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(y, buf, encOpts(cfg, outFmt, out)...); err != nil {
		return stage.Wrap(stage.Serialize, err, "serialization of data failed")
	}

	if cfg.Check {
		same, err := checkOutput(out, cfg.Output, buf.Bytes(), useColor(cfg.Color, out))
		if err != nil {
			return stage.Wrap(stage.Write, fmt.Errorf("%w: %w", stage.ErrWrite, err), "checking output data failed")
		}
		if !same {
			return errDiffers
		}
		return nil
	}
	if err := writeOutput(cfg.Output, out, buf.Bytes(), log); err != nil {
		return stage.Wrap(stage.Write, fmt.Errorf("%w: %w", stage.ErrWrite, err), "writing output data failed")
	}
	return nil
}

func validateOutput(ctx context.Context, cfg *Config, f *fetch.Fetcher, y *ir.Node, log *slog.Logger) error {
	reg := validate.NewRegistry()
	if cfg.ForceSchema != "" {
		schema, err := f.Load(ctx, cfg.ForceSchema)
		if err != nil {
			return err
		}
		log.Info("validating", "schema", cfg.ForceSchema)
		if err := reg.ValidateWith(y, schema); err != nil {
			logViolations(reg, y, schema, log)
			return err
		}
	}
	if len(cfg.Schemas) == 0 || !y.Has("$schema") {
		return nil
	}
	for _, loc := range cfg.Schemas {
		schema, err := f.Load(ctx, loc)
		if err != nil {
			return err
		}
		if err := reg.Register(schema); err != nil {
			return fmt.Errorf("%s: %w", loc, err)
		}
	}
	log.Info("validating", "count", reg.Len(), "schemas", reg.IDs())
	if err := reg.Validate(y); err != nil {
		if s := y.Get("$schema"); s != nil && s.Type == ir.StringType {
			if schema := reg.Lookup(s.String); schema != nil {
				logViolations(reg, y, schema, log)
			}
		}
		return err
	}
	return nil
}

// logViolations lists every violation at debug level; the error itself
// only carries the first.
func logViolations(reg *validate.Registry, y, schema *ir.Node, log *slog.Logger) {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	violations, err := reg.Errors(y, schema)
	if err != nil {
		return
	}
	for _, v := range violations {
		log.Debug("schema violation", "at", v)
	}
}

func encOpts(cfg *Config, f format.Format, out io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeFormat(f), encode.Indent(cfg.Indent)}
	if cfg.Output != "" || cfg.Check || !f.IsJSON() {
		return res
	}
	if isTerminal(out) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func writeOutput(path string, out io.Writer, d []byte, log *slog.Logger) error {
	if path == "" {
		log.Info("writing output to stdout")
		_, err := out.Write(d)
		return err
	}
	log.Info("writing output", "file", path)
	return os.WriteFile(path, d, 0644)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func useColor(force bool, w io.Writer) bool {
	return force || isTerminal(w)
}
