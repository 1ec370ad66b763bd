package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage: key not found")

// Storage 客户端持久化存储，按键保存原始字节
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Options 打开存储所需的参数
type Options struct {
	Driver      string
	Dir         string
	DatabaseURL string
}

// Open 按驱动名创建存储：file / memory / postgres
func Open(opts Options) (Storage, error) {
	switch opts.Driver {
	case "", "file":
		return NewFileStorage(opts.Dir)
	case "memory":
		return NewMemoryStorage(), nil
	case "postgres":
		return NewDBStorage(opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", opts.Driver)
	}
}
