package database

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed migrations
var dbMigrations embed.FS

func migrateSqlite(db *sql.DB) error {
	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	return migrateDB("migrations/sqlite3", "sqlite3", dst)
}

func migrateMongo(client *mongo.Client, dbName string) error {
	dst, err := mongodb.WithInstance(client, &mongodb.Config{DatabaseName: dbName})
	if err != nil {
		return err
	}
	return migrateDB("migrations/mongodb", "mongodb", dst)
}

func migrateDB(dir, dbName string, dst migratedb.Driver) error {
	src, err := iofs.New(dbMigrations, dir)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, dbName, dst)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		// db already up to date
		break
	case err != nil:
		return err
	}
	return nil
}
