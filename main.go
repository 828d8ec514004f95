package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/contentiq/contentiq/internal/analyze"
	"github.com/contentiq/contentiq/internal/serve"
)

var version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "contentiq",
		Usage:   "web content intelligence: safe fetching, extraction, SEO mining, and text analytics",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file",
				Value:   "config.yaml",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Aliases: []string{"l"},
						Usage:   "listen address (overrides config)",
					},
				},
			},
			{
				Name:      "extract",
				Usage:     "extract structured content from a URL",
				ArgsUsage: "<url>",
				Action:    analyze.ExtractAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "images", Usage: "include image URLs"},
					&cli.BoolFlag{Name: "links", Usage: "include outbound links"},
					&cli.BoolFlag{Name: "markdown", Usage: "render the main content as markdown"},
				},
			},
			{
				Name:      "seo",
				Usage:     "extract SEO metadata from a URL",
				ArgsUsage: "<url>",
				Action:    analyze.SEOAction,
			},
			{
				Name:      "analyze",
				Usage:     "full analysis of a URL: content, SEO, quality, and AI insights",
				ArgsUsage: "<url>",
				Action:    analyze.AnalyzeAction,
			},
			{
				Name:      "compare",
				Usage:     "compare the content of two URLs",
				ArgsUsage: "<url1> <url2>",
				Action:    analyze.CompareAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
