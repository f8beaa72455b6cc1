package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// @title           InC Backend API
// @version         1.0
// @description     Registration, judging and allocation backend for the InC project exhibition.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "inc",
		Usage: "InC event platform backend",
		Action: func(cctx *cli.Context) error {
			return startServer(cctx)
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the api server",
				Action: startServer,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "worker", Value: true, Usage: "run the notification worker in-process"},
				},
			},
			{
				Name:   "worker",
				Usage:  "Deliver queued notifications",
				Action: startWorker,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "concurrency", Value: 4},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Apply or roll back database migrations",
				Action: runMigrate,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "down", Usage: "number of migrations to roll back"},
				},
			},
			{
				Name:   "backup",
				Usage:  "Copy changed tickets to the backup database",
				Action: runBackup,
			},
			{
				Name:   "export",
				Usage:  "Write the registrations of an event to Google Sheets",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "event", Required: true},
				},
			},
			{
				Name:   "create-admin",
				Usage:  "Create or replace an operator account",
				Action: createAdmin,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
					&cli.StringSliceFlag{Name: "role", Value: cli.NewStringSlice("VIEWER", "ADMIN")},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
