package database

import (
	"context"
	"embed"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cafe-finder/internal/config"
)

// Driver names registered by the database/sql drivers imported above.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DSN maps the configured DB_DRIVER onto a database/sql driver name and
// connection string.
func DSN(cfg config.Config) (driver, dsn string, err error) {
	switch cfg.DBDriver {
	case "sqlite":
		// busy_timeout lets concurrent writers wait on the file lock instead of failing
		return DriverSQLite, cfg.DBPath + "?_pragma=busy_timeout(5000)", nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return DriverMySQL, mc.FormatDSN(), nil
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:   net.JoinHostPort(cfg.DBHost, cfg.DBPort),
			Path:   "/" + cfg.DBName,
		}
		return DriverPostgres, u.String(), nil
	}
	return "", "", fmt.Errorf("unsupported driver %q", cfg.DBDriver)
}

// Open connects to the database and verifies the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings. SQLite serializes writers anyway and an in-memory
	// database only lives as long as its single connection.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the cafes table when it does not exist yet.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	name := "schema/sqlite.sql"
	switch db.DriverName() {
	case DriverMySQL:
		name = "schema/mysql.sql"
	case DriverPostgres:
		name = "schema/postgres.sql"
	}
	ddl, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	return nil
}
