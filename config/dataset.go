package config

import "socialpulse/pkg/config"

func init() {
	config.Add("dataset", func() map[string]interface{} {
		return map[string]interface{}{
			// 帖子数据文件
			"path": config.Env("DATASET_PATH", "data/social_media_posts.csv"),
			// 缓存时间，单位秒
			"ttl": config.Env("DATASET_TTL", 3600),
		}
	})
}
