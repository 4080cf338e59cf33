package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blues/cfc/internal/config"
	badger "github.com/dgraph-io/badger/v4"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("键不存在")

// ErrCorrupt 存储数据损坏
var ErrCorrupt = errors.New("存储数据损坏")

// Store badger 持久化存储封装
type Store struct {
	db *badger.DB
}

// Open 打开存储，未配置数据目录时使用内存模式
func Open(cfg config.StoreConfig) (*Store, error) {
	var badgerOpts badger.Options

	if cfg.DataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithInMemory(true)
	} else {
		// 确保数据目录存在
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(cfg.DataDir)
	}

	// badger 默认的 INFO 输出太啰嗦
	badgerOpts = badgerOpts.
		WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭存储
func (s *Store) Close() error {
	return s.db.Close()
}

// View 只读事务
func (s *Store) View(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Update 读改写事务，badger 提交冲突时整体重试
// 重试保证并发的读改写序列各自以串行化语义生效
func (s *Store) Update(fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

// Get 在事务内读取键值
func Get(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Set 在事务内写入键值
func Set(txn *badger.Txn, key, val []byte) error {
	return txn.Set(key, val)
}

// GetCounter 读取活动计数器，未写入过时为0
func GetCounter(txn *badger.Txn) (uint64, error) {
	data, err := Get(txn, CounterKey())
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: 计数器长度 %d", ErrCorrupt, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// SetCounter 写入活动计数器
func SetCounter(txn *badger.Txn, count uint64) error {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, count)
	return Set(txn, CounterKey(), data)
}
