package dataset

import (
	"fmt"
	"sync"
	"time"

	"socialpulse/pkg/logger"
)

// DefaultTTL 数据缓存时间
const DefaultTTL = time.Hour

// Store 带过期时间的数据集缓存，过期后下次读取时重新加载文件
type Store struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	posts    []Post
	loadedAt time.Time
}

// NewStore 创建数据集缓存，ttl <= 0 时使用 DefaultTTL
func NewStore(path string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{path: path, ttl: ttl, now: time.Now}
}

// Path 数据文件路径
func (s *Store) Path() string {
	return s.path
}

// Posts 返回缓存的数据，过期或未加载时重新读取
func (s *Store) Posts() ([]Post, error) {
	s.mu.RLock()
	if s.posts != nil && s.now().Sub(s.loadedAt) < s.ttl {
		posts := s.posts
		s.mu.RUnlock()
		return posts, nil
	}
	s.mu.RUnlock()

	return s.Refresh()
}

// Refresh 强制重新读取数据文件
func (s *Store) Refresh() ([]Post, error) {
	posts, err := Load(s.path)
	if err != nil {
		logger.ErrorString("Dataset", "Load", err.Error())
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}

	s.mu.Lock()
	s.posts = posts
	s.loadedAt = s.now()
	s.mu.Unlock()

	logger.InfoString("Dataset", "Load", fmt.Sprintf("数据加载成功 文件:%s 记录数:%d", s.path, len(posts)))
	return posts, nil
}
