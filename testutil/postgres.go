// Package testutil starts disposable databases for integration tests.
package testutil

import (
	"errors"
	"fmt"
	"strings"

	"inc/config"
	"inc/migrations"

	"github.com/ory/dockertest/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNoDocker = errors.New("docker is not available")

var tables = []string{
	"tickets", "projects", "event_members", "pid_counters", "files", "techfiesta_teams",
	"judges", "allocations", "evaluations", "admins", "notifications",
}

// Postgres is a throwaway postgres container with the schema migrated.
type Postgres struct {
	DB       *gorm.DB
	DSN      string
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

func StartPostgres() (*Postgres, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocker, err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocker, err)
	}

	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "POSTGRES_DB=postgres"})
	if err != nil {
		return nil, err
	}
	resource.Expire(600)
	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable",
		resource.GetPort("5432/tcp"))

	p := &Postgres{DSN: dsn, pool: pool, resource: resource}
	if err := pool.Retry(func() error {
		db, err := config.OpenDB(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		p.DB = db
		return nil
	}); err != nil {
		p.Close()
		return nil, err
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		p.Close()
		return nil, err
	}
	if err := migrations.Up(sqlDB); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewDatabase creates an empty database in the same container, used as a backup target.
func (p *Postgres) NewDatabase(name string) (*gorm.DB, error) {
	if err := p.DB.Exec("DROP DATABASE IF EXISTS " + name + " WITH (FORCE)").Error; err != nil {
		return nil, err
	}
	if err := p.DB.Exec("CREATE DATABASE " + name).Error; err != nil {
		return nil, err
	}
	return config.OpenDB(strings.Replace(p.DSN, "dbname=postgres", "dbname="+name, 1))
}

// Truncate empties every application table.
func (p *Postgres) Truncate() {
	if err := p.DB.Exec("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY").Error; err != nil {
		log.WithError(err).Error("truncate failed")
	}
}

func (p *Postgres) Close() {
	if p.DB != nil {
		config.CloseDB(p.DB)
	}
	if err := p.pool.Purge(p.resource); err != nil {
		log.Errorf("Could not purge resource: %s", err)
	}
}
