package db

import (
	"fmt"
	"log"
	"redditcrawl/internal/config"
	"redditcrawl/internal/models"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 按配置连接数据库并执行迁移，连接池上限即 DB_MAX_CONNS
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(withForeignKeys(cfg.URL))
	default:
		dialector = postgres.Open(cfg.URL)
	}

	db, err := open(dialector, cfg.MaxConns)
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established")
	return db, nil
}

// OpenSQLite 打开 SQLite 数据库（本地开发和测试用）。
// 内存库必须只用一个连接，否则每个连接各自一份数据
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return open(sqlite.Open(withForeignKeys(dsn)), 1)
}

// withForeignKeys SQLite 默认不检查外键，DSN 里没写的话补上 _foreign_keys=1，
// 否则缺失版块/用户的写入会直接成功
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

func open(dialector gorm.Dialector, maxConns int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		// 把驱动的唯一键/外键错误翻译成 gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Subreddit{},
		&models.Post{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
