package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry 存储表中的一行
type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName 固定表名
func (Entry) TableName() string {
	return "client_storage"
}

// DBStorage 以 Postgres 表保存键值，便于多台机器共用同一份会话
type DBStorage struct {
	db *gorm.DB
}

// NewDBStorage 连接数据库并自动建表
func NewDBStorage(databaseURL string) (*DBStorage, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)

	return NewDBStorageWithGorm(db)
}

// NewDBStorageWithGorm 复用已有的 gorm 连接
func NewDBStorageWithGorm(db *gorm.DB) (*DBStorage, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("建表失败: %w", err)
	}
	return &DBStorage{db: db}, nil
}

func (s *DBStorage) Get(key string) ([]byte, error) {
	var entry Entry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *DBStorage) Set(key string, value []byte) error {
	entry := &Entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}

func (s *DBStorage) Remove(key string) error {
	return s.db.Where("key = ?", key).Delete(&Entry{}).Error
}

// Close 关闭底层连接
func (s *DBStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
