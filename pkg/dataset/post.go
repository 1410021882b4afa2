// Package dataset 读取并统计社交媒体帖子数据
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Metric 互动指标
type Metric string

const (
	MetricLikes    Metric = "likes"
	MetricComments Metric = "comments"
	MetricShares   Metric = "shares"
	MetricViews    Metric = "views"
)

// Metrics 所有指标，顺序与仪表盘一致
var Metrics = []Metric{MetricLikes, MetricComments, MetricShares, MetricViews}

// ParseMetric 解析指标名称，大小写不敏感
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric: %q", name)
}

// Post 单条帖子记录
type Post struct {
	ID       string    `json:"post_id"`
	Type     string    `json:"post_type"`
	Likes    int64     `json:"likes"`
	Shares   int64     `json:"shares"`
	Comments int64     `json:"comments"`
	Views    int64     `json:"views"`
	PostedAt time.Time `json:"posted_at"`
	HasTime  bool      `json:"-"` // CSV 中带有 Post_Time

	TotalEngagement int64   `json:"total_engagement"`
	EngagementRate  float64 `json:"engagement_rate"`
}

// Engagement 点赞、评论、分享之和
func (p Post) Engagement() int64 {
	return p.Likes + p.Comments + p.Shares
}

// ScoreEngagement 计算每条帖子的总互动数和互动率。
// 互动率 = 总互动数 / 同类帖子平均点赞数 * 100，基准取自传入的全部帖子。
func ScoreEngagement(posts []Post) {
	likes := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range posts {
		likes[p.Type] += float64(p.Likes)
		counts[p.Type]++
	}

	for i := range posts {
		p := &posts[i]
		p.TotalEngagement = p.Engagement()
		p.EngagementRate = 0
		if base := likes[p.Type] / float64(counts[p.Type]); base > 0 {
			p.EngagementRate = float64(p.TotalEngagement) / base * 100
		}
	}
}

// Value 取出指定指标的值
func (p Post) Value(m Metric) float64 {
	switch m {
	case MetricLikes:
		return float64(p.Likes)
	case MetricComments:
		return float64(p.Comments)
	case MetricShares:
		return float64(p.Shares)
	case MetricViews:
		return float64(p.Views)
	}
	return 0
}

// Day 帖子发布日期（去掉时间部分）
func (p Post) Day() time.Time {
	y, m, d := p.PostedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.PostedAt.Location())
}
