package store

import (
	"fmt"
	"os"
	"path/filepath"
	"swapflow/conf"
	"swapflow/internal/model"
	"swapflow/pkg/logger"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/goccy/go-json"
)

// 仓位状态存储：position.json、trades.json、errors.json 三个整文档。
// 写入走临时文件+rename，外部读者不会看到半截文档。
// 单写者：所有写入都串行在同一把锁后面；历史列表固定最新在前。

const (
	positionFile = "position.json"
	tradesFile   = "trades.json"
	errorsFile   = "errors.json"
)

type Store struct {
	mu   sync.Mutex
	dir  string
	node *snowflake.Node
}

func New(cfg conf.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	return &Store{dir: cfg.Dir, node: node}, nil
}

// Position 读取当前仓位。文档缺失或损坏时返回空仓零余额的安全默认值，
// 绝不把读取错误抛给调用方
func (s *Store) Position() model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p model.Position
	data, err := os.ReadFile(filepath.Join(s.dir, positionFile))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Errorf("[Store] read position: %v", err)
		}
		return model.DefaultPosition()
	}
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Errorf("[Store] position document corrupted: %v", err)
		return model.DefaultPosition()
	}
	return p
}

func (s *Store) SavePosition(p model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDoc(positionFile, p)
}

// AppendTrade 头插一条成交记录，id为空时由store分配
func (s *Store) AppendTrade(r model.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Id == "" {
		r.Id = s.node.Generate().String()
	}
	trades := s.readTrades()
	trades = append([]model.TradeRecord{r}, trades...)
	return s.writeDoc(tradesFile, trades)
}

// AppendError 头插一条错误记录
func (s *Store) AppendError(r model.ErrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Id == "" {
		r.Id = s.node.Generate().String()
	}
	errs := s.readErrors()
	errs = append([]model.ErrorRecord{r}, errs...)
	return s.writeDoc(errorsFile, errs)
}

// Trades 成交历史，最新在前
func (s *Store) Trades() []model.TradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTrades()
}

// Errors 错误日志，最新在前
func (s *Store) Errors() []model.ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErrors()
}

func (s *Store) readTrades() []model.TradeRecord {
	var trades []model.TradeRecord
	s.readDoc(tradesFile, &trades)
	return trades
}

func (s *Store) readErrors() []model.ErrorRecord {
	var errs []model.ErrorRecord
	s.readDoc(errorsFile, &errs)
	return errs
}

// readDoc 损坏的历史文档按空处理，保持追加语义可用
func (s *Store) readDoc(name string, v interface{}) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Errorf("[Store] read %s: %v", name, err)
		}
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Errorf("[Store] %s corrupted: %v", name, err)
	}
}

// writeDoc 整文档重写：写临时文件后rename，对读者原子
func (s *Store) writeDoc(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}
