package main

import (
	"errors"
	"os/signal"
	"syscall"

	"inc/config"
	"inc/cron"
	"inc/migrations"
	"inc/service"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func startWorker(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	s := &server{}
	defer s.close()
	if err := s.load(); err != nil {
		return err
	}
	log.Info("notification worker started")
	cron.NewNotificationWorker(s.queue, s.notifications, cctx.Int("concurrency")).Run(ctx)
	return nil
}

func runMigrate(cctx *cli.Context) error {
	s := &server{}
	s.loadConfig()
	db, err := config.OpenDB(s.cfg.DSN())
	if err != nil {
		return err
	}
	defer config.CloseDB(db)
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if steps := cctx.Int("down"); steps > 0 {
		return migrations.Down(sqlDB, steps)
	}
	return migrations.Up(sqlDB)
}

func runBackup(cctx *cli.Context) error {
	s := &server{}
	s.loadConfig()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	defer s.close()
	backup, err := s.backupService()
	if err != nil {
		return err
	}
	if backup == nil {
		return errors.New("BACKUP_DATABASE_DSN is not set")
	}
	result, err := backup.Run(cctx.Context)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"copied": result.Copied, "since": result.Since, "until": result.Until}).Info("backup finished")
	return nil
}

func runExport(cctx *cli.Context) error {
	s := &server{}
	s.loadConfig()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	defer s.close()
	if err := s.loadEvents(); err != nil {
		return err
	}
	export, err := s.exportService(cctx.Context)
	if err != nil {
		return err
	}
	if export == nil {
		return errors.New("SHEETS_CREDENTIALS_FILE and SHEETS_SPREADSHEET_ID must be set")
	}
	rows, err := export.ExportRegistrations(cctx.Context, cctx.String("event"))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"event": cctx.String("event"), "rows": rows}).Info("export finished")
	return nil
}

func createAdmin(cctx *cli.Context) error {
	s := &server{}
	s.loadConfig()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	defer s.close()
	admin, err := service.NewAdminService(s.db).CreateAdmin(cctx.String("username"), cctx.String("password"), cctx.StringSlice("role"))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"username": admin.Username, "roles": admin.Roles}).Info("admin saved")
	return nil
}
