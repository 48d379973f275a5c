package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/local/scanbind/internal/config"
	"github.com/local/scanbind/internal/doctor"
	"github.com/local/scanbind/internal/logger"
	"github.com/local/scanbind/internal/orchestrator"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	app := &cli.App{
		Name:      "scanbind",
		Usage:     "assemble scanned pages or partial PDFs into one ordered document",
		Version:   version,
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rescale", Aliases: []string{"r"}, Usage: "run the rescale stage"},
			&cli.BoolFlag{Name: "build", Aliases: []string{"b"}, Usage: "generate the document descriptions"},
			&cli.BoolFlag{Name: "compile", Aliases: []string{"c"}, Usage: "compile and finish the document"},
			&cli.BoolFlag{Name: "landscape", Aliases: []string{"l"}, Usage: "rotate merged pages by the landscape angle"},
			&cli.BoolFlag{Name: "reverse-landscape", Aliases: []string{"L"}, Usage: "rotate merged pages by the reverse landscape angle"},
			&cli.BoolFlag{Name: "direct", Usage: "assemble PDFs without the external compiler"},
			&cli.BoolFlag{Name: "preview", Usage: "render a JPEG preview of the result"},
			&cli.BoolFlag{Name: "keep-temps", Usage: "keep descriptions and compile work dirs"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			level := cfg.Logging.Level
			if c.Bool("verbose") {
				level = "debug"
			}
			return logger.Init(logger.Options{
				Level:        level,
				Pretty:       cfg.Logging.Pretty,
				File:         cfg.Logging.File,
				MaxSizeMB:    cfg.Logging.MaxSizeMB,
				MaxBackups:   cfg.Logging.MaxBackups,
				MaxAgeDays:   cfg.Logging.MaxAgeDays,
				Compress:     cfg.Logging.Compress,
				SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
				AxiomAPIKey:  cfg.Axiom.APIKey,
				AxiomOrgID:   cfg.Axiom.OrgID,
				AxiomDataset: cfg.Axiom.Dataset,
				AxiomFlush:   cfg.Axiom.FlushInterval,
			})
		},
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			if c.Bool("landscape") && c.Bool("reverse-landscape") {
				return fmt.Errorf("choose one of --landscape or --reverse-landscape")
			}
			opts := orchestrator.Options{
				Stages: orchestrator.Stages{
					Rescale: c.Bool("rescale"),
					Build:   c.Bool("build"),
					Compile: c.Bool("compile"),
				},
				Landscape: c.Bool("landscape"),
				Reverse:   c.Bool("reverse-landscape"),
				Direct:    c.Bool("direct"),
				Preview:   c.Bool("preview"),
				KeepTemps: c.Bool("keep-temps"),
			}
			return orchestrator.New(cfg).Run(c.Context, c.Args().Slice(), opts)
		},
		Commands: []*cli.Command{
			{
				Name:  "doctor",
				Usage: "check the external tools and the archive target",
				Action: func(c *cli.Context) error {
					return doctor.Run(c.Context, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
