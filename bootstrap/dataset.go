package bootstrap

import (
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/dataset"
)

// SetupDataset 创建数据集缓存，文件在首次请求时读取
func SetupDataset() *dataset.Store {
	return dataset.NewStore(
		config.GetString("dataset.path"),
		time.Duration(config.GetInt("dataset.ttl", 3600))*time.Second,
	)
}
