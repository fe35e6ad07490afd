// Package sql stores collection documents in a single gorm-managed table,
// one row per collection. SQLite and MySQL are supported.
package sql

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/warfront/internal/storage"
)

// Document is one persisted collection
type Document struct {
	Name      string `gorm:"primaryKey;size:64"`
	Body      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of naming strategy
func (Document) TableName() string {
	return "warfront_documents"
}

// Storage is a gorm-backed document backend
type Storage struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database file
func OpenSQLite(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// OpenMySQL connects to MySQL with a connection pool
func OpenMySQL(dsn string, maxOpen, maxIdle int, maxLife time.Duration) (*Storage, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLife)

	return New(db)
}

// New wraps an open gorm DB and migrates the documents table
func New(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Ensure Storage implements the interface
var _ storage.Backend = (*Storage)(nil)

func (s *Storage) Ensure(ctx context.Context, c storage.Collection, empty []byte) error {
	doc := Document{Name: string(c), Body: empty}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&doc).Error
}

func (s *Storage) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "name = ?", string(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc.Body, nil
}

func (s *Storage) Save(ctx context.Context, c storage.Collection, data []byte) error {
	doc := Document{Name: string(c), Body: data}
	return s.db.WithContext(ctx).Save(&doc).Error
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
