package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "i",
			Aliases:     []string{"input-format"},
			Description: "input format: auto, json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.inFormatOpt, "(format)"),
		},
		&cli.Opt{
			Name:        "f",
			Aliases:     []string{"output-format"},
			Description: "output format: auto, json/j, yaml/y, md (auto uses the -o extension)",
			Type:        cli.NamedFuncOpt(cfg.outFormatOpt, "(format)"),
		},
		&cli.Opt{
			Name:        "s",
			Aliases:     []string{"sub"},
			Description: "replace key by val in all strings (repeatable)",
			Type:        cli.NamedFuncOpt(cfg.subOpt, "(key=val)"),
		},
		&cli.Opt{
			Name:        "schema",
			Description: "schema to validate with when the output $schema names its $id (repeatable)",
			Type:        cli.NamedFuncOpt(cfg.schemaOpt, "(file)"),
		},
		&cli.Opt{
			Name:        "timeout",
			Description: "timeout for remote fetches",
			Type:        cli.NamedFuncOpt(cfg.timeoutOpt, "(duration)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "propdefs").
		WithSynopsis("propdefs [opts] source").
		WithDescription("propdefs resolves $$inherit, $$keep, $$exclude and $$schema directives in property definition files and writes the result as json, yaml or markdown. source is a file, a URL or a directory.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}
