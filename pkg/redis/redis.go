/*
Package redis 提供 Redis 连接管理

	1. 连接池管理
	2. 业务库与队列库分离
	3. 并发安全
*/
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialpulse/pkg/logger"

	redis "github.com/redis/go-redis/v9"
)

// 关键配置常量
const (
	// DefaultPoolSize Redis 连接池大小
	DefaultPoolSize = 100
	// DefaultTimeout 默认操作超时时间
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns 最小空闲连接数
	DefaultMinIdleConns = 10
	// DefaultMaxRetries 最大重试次数
	DefaultMaxRetries = 3
	// DefaultIdleTimeout 空闲超时
	DefaultIdleTimeout = 5 * time.Minute
)

// RedisInstance Redis 实例类型
type RedisInstance string

const (
	MainDB  RedisInstance = "main"  // 主数据库实例（用于限流等）
	QueueDB RedisInstance = "queue" // 队列数据库实例
)

// RedisClient Redis 客户端封装
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
}

// RedisConfig Redis 配置结构
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	Timeout      time.Duration
}

// RedisManager 按用途管理多个 Redis 实例
type RedisManager struct {
	instances map[RedisInstance]*RedisClient
	mutex     sync.RWMutex
}

var (
	once    sync.Once
	Manager *RedisManager
)

/* 🔄 连接管理相关方法 */

// NewClient 创建新的 Redis 客户端并测试连接
func NewClient(config RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,     // 连接池大小
		MinIdleConns: config.MinIdleConns, // 最小空闲连接数

		// 连接池配置
		PoolTimeout:     config.Timeout,
		ConnMaxIdleTime: DefaultIdleTimeout,
		ConnMaxLifetime: 24 * time.Hour,

		// 读写超时
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// 重试策略
		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	rds := NewFromClient(client)
	if err := rds.Ping(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", config.Address, err)
	}
	return rds, nil
}

// NewFromClient 包装已有的客户端
func NewFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{
		Client:  client,
		Context: context.Background(),
	}
}

/* 🔍 健康检查方法 */

// Ping 测试 Redis 连接
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	_, err := rds.Client.Ping(ctx).Result()
	return err
}

// InitRedis 初始化 Redis 管理器，连接失败时 panic
func InitRedis(address, username, password string, mainDB, queueDB int) {
	once.Do(func() {
		manager := NewManager()
		for instance, db := range map[RedisInstance]int{MainDB: mainDB, QueueDB: queueDB} {
			client, err := NewClient(RedisConfig{
				Address:      address,
				Username:     username,
				Password:     password,
				DB:           db,
				PoolSize:     DefaultPoolSize,
				MinIdleConns: DefaultMinIdleConns,
				Timeout:      DefaultTimeout,
			})
			if err != nil {
				logger.ErrorString("Redis", "Connect", err.Error())
				panic(fmt.Sprintf("Redis 连接失败: %v", err))
			}
			manager.Register(instance, client)
		}
		Manager = manager
	})
}

// NewManager 创建空的管理器
func NewManager() *RedisManager {
	return &RedisManager{instances: make(map[RedisInstance]*RedisClient)}
}

// Register 注册实例
func (m *RedisManager) Register(instance RedisInstance, client *RedisClient) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.instances[instance] = client
}

// Get 获取实例，不存在时返回主实例
func (m *RedisManager) Get(instance RedisInstance) *RedisClient {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.instances[instance]; ok {
		return client
	}
	return m.instances[MainDB]
}

// GetRedis 获取全局管理器中的实例，未启用 Redis 时返回 nil
func GetRedis(instance RedisInstance) *RedisClient {
	if Manager == nil {
		return nil
	}
	return Manager.Get(instance)
}
