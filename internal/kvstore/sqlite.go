package kvstore

import (
	"github.com/tphakala/daylight-go/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is the GORM model for one persisted key/value pair.
type Entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName sets the table name for the Entry model.
func (Entry) TableName() string {
	return "kv_entries"
}

// SQLiteStore implements Store on an SQLite database through GORM.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path and
// migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.New(err).
			Component("kvstore").
			Category(errors.CategoryDatabase).
			Context("operation", "open-sqlite").
			Build()
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, errors.New(err).
			Component("kvstore").
			Category(errors.CategoryDatabase).
			Context("operation", "migrate-sqlite").
			Build()
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value for key.
func (ss *SQLiteStore) Get(key string) (string, bool, error) {
	var entry Entry
	err := ss.db.First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.New(err).
			Component("kvstore").
			Category(errors.CategoryDatabase).
			Context("operation", "get").
			Build()
	}
	return entry.Value, true, nil
}

// Set replaces the value for key.
func (ss *SQLiteStore) Set(key, value string) error {
	entry := Entry{Key: key, Value: value}
	if err := ss.db.Save(&entry).Error; err != nil {
		return errors.New(err).
			Component("kvstore").
			Category(errors.CategoryDatabase).
			Context("operation", "set").
			Build()
	}
	return nil
}

// Delete removes key.
func (ss *SQLiteStore) Delete(key string) error {
	if err := ss.db.Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return errors.New(err).
			Component("kvstore").
			Category(errors.CategoryDatabase).
			Context("operation", "delete").
			Build()
	}
	return nil
}

// Close closes the underlying database connection.
func (ss *SQLiteStore) Close() error {
	sqlDB, err := ss.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
