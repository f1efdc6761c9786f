package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "pixelfit"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Starts the main service with all apis.`,
		},
		{
			Action:   server.startMigrate,
			Name:     "migrate",
			Usage:    "Run a single migration step",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "version",
					Usage:    "migration step to run, e.g. 0001",
					Required: true,
				},
			},
			Description: `Runs one migration step by version, outside the automatic chain.`,
		},
	}

	s.app = app
}
