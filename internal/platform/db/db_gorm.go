// Package db opens the GORM connections used by the relational storage backend.
package db

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported relational drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はリレーショナルストアの接続設定です。
type Config struct {
	Driver     string
	SQLitePath string

	User     string
	Password string
	Name     string
	Host     string
	Port     string
	TimeZone string
}

// Opener はDSNからGORM接続を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:     os.Getenv("RELATIONAL_DRIVER"),
		SQLitePath: os.Getenv("SQLITE_PATH"),
		User:       os.Getenv("DB_USER"),
		Password:   os.Getenv("DB_PASSWORD"),
		Name:       os.Getenv("DB_NAME"),
		Host:       os.Getenv("DB_HOST"),
		Port:       os.Getenv("DB_PORT"),
		TimeZone:   os.Getenv("TIMEZONE"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "./cardenal.db"
	}
	return cfg
}

// BuildDSN はPostgres接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	tz := cfg.TimeZone
	if tz == "" {
		tz = "America/Mexico_City"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, port, tz)
}

// gormConfig は一意制約違反を gorm.ErrDuplicatedKey に変換する設定を返します。
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// OpenSQLite は組み込みSQLiteデータベースを開きます。":memory:" も指定できます。
// 単一ライターモデルのため接続は1本に制限します。
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres はPostgresへ接続します。接続できるまで timeout の間リトライします。
func OpenPostgres(cfg Config, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	opener := func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), gormConfig())
	}
	return ConnectWithRetry(BuildDSN(cfg), timeout, opener, logger)
}

// Open は cfg.Driver に応じてデータベースを開きます。
func Open(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		logger.Info("using sqlite", zap.String("path", cfg.SQLitePath))
		return OpenSQLite(cfg.SQLitePath)
	case DriverPostgres:
		logger.Info("using postgres", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
		return OpenPostgres(cfg, 60*time.Second, logger)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", cfg.Driver)
	}
}

// ConnectWithRetry は opener で接続を試み、失敗した場合は timeout を超えるまでリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		logger.Warn("DB connect failed, retrying", zap.Error(err))
		time.Sleep(retryInterval)
	}
}
