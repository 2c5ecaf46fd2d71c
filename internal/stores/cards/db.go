package cards

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ethanbaker/cardbot/pkg/utils"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// Config contains database connection options
type Config struct {
	Driver string // mysql (default) or sqlite
	DSN    string // GORM DSN; for sqlite a file path or :memory:
}

// ConfigFromSettings reads DATABASE_DRIVER and DATABASE_URL. When no URL is set
// for mysql, the DSN is assembled from the MYSQL_* settings instead.
func ConfigFromSettings(cfg *utils.Config) Config {
	out := Config{
		Driver: cfg.GetWithDefault("DATABASE_DRIVER", "mysql"),
		DSN:    cfg.Get("DATABASE_URL"),
	}

	if out.DSN == "" && strings.EqualFold(out.Driver, "mysql") && cfg.Get("MYSQL_HOST") != "" {
		out.DSN = MySQLDSN(
			cfg.Get("MYSQL_USERNAME"),
			cfg.Get("MYSQL_ROOT_PASSWORD"),
			cfg.Get("MYSQL_HOST")+":"+cfg.GetWithDefault("MYSQL_PORT", "3306"),
			cfg.Get("MYSQL_DATABASE"),
		)
	}

	return out
}

// MySQLDSN formats a TCP DSN for the mysql driver
func MySQLDSN(user, password, addr, database string) string {
	dbConfig := mysqldriver.NewConfig()
	dbConfig.User = user
	dbConfig.Passwd = password
	dbConfig.Net = "tcp"
	dbConfig.Addr = addr
	dbConfig.DBName = database
	dbConfig.ParseTime = true

	return dbConfig.FormatDSN()
}

// Open initialises a gorm.DB for the configured driver and migrates the card tables
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "mysql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mysql requires a DSN")
		}
		db, err = gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	case "sqlite":
		dsn, dsnErr := sqliteDSN(cfg.DSN)
		if dsnErr != nil {
			return nil, dsnErr
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
		if err == nil {
			err = limitSQLite(db)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the card tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CardModel{}, &CardLookupModel{})
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

// sqliteDSN turns a path into a DSN with foreign keys enabled
func sqliteDSN(path string) (string, error) {
	path = strings.TrimSpace(path)
	switch {
	case path == "", strings.EqualFold(path, ":memory:"):
		return "file::memory:?_foreign_keys=1", nil
	case strings.HasPrefix(path, "file:"):
		return path, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(path)), nil
}

// limitSQLite pins the pool to one connection. SQLite allows a single writer,
// and a private :memory: database only lives as long as its connection.
func limitSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return nil
}

// isDuplicateKey reports whether err is a unique constraint violation
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
