package dataset

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

type span struct{ min, max int64 }

type engagementProfile struct {
	likes, shares, comments, views span
}

// 各类帖子的互动区间
var profiles = map[string]engagementProfile{
	"carousel":     {likes: span{500, 1000}, shares: span{200, 500}, comments: span{100, 300}, views: span{1000, 5000}},
	"reels":        {likes: span{1000, 5000}, shares: span{300, 1000}, comments: span{500, 1500}, views: span{5000, 20000}},
	"static_image": {likes: span{300, 700}, shares: span{100, 300}, comments: span{50, 150}, views: span{500, 3000}},
	"video":        {likes: span{700, 2000}, shares: span{200, 700}, comments: span{300, 800}, views: span{2000, 10000}},
}

// PostTypes 生成器支持的帖子类型，按名称排序
func PostTypes() []string {
	types := make([]string, 0, len(profiles))
	for t := range profiles {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// postingSlots 08:00 到 17:45 每 15 分钟一个时段，上午 9-12 点权重为 4
func postingSlots() []time.Duration {
	var slots []time.Duration
	for hour := 8; hour < 18; hour++ {
		weight := 1
		if hour >= 9 && hour < 12 {
			weight = 4
		}
		for minute := 0; minute < 60; minute += 15 {
			slot := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
			for i := 0; i < weight; i++ {
				slots = append(slots, slot)
			}
		}
	}
	return slots
}

// Generate 生成 rows 条模拟数据，日期分布在 now 之前一年内，相同 seed 结果相同
func Generate(rows int, now time.Time, seed uint64) []Post {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	types := PostTypes()
	slots := postingSlots()

	today := truncateDay(now, now.Location())
	start := today.AddDate(-1, 0, 0)
	days := int(today.Sub(start).Hours()/24) + 1

	posts := make([]Post, 0, rows)
	for i := 1; i <= rows; i++ {
		typ := types[rng.IntN(len(types))]
		p := profiles[typ]
		day := start.AddDate(0, 0, rng.IntN(days))

		posts = append(posts, Post{
			ID:       fmt.Sprintf("P%03d", i),
			Type:     typ,
			Likes:    between(rng, p.likes),
			Shares:   between(rng, p.shares),
			Comments: between(rng, p.comments),
			Views:    between(rng, p.views),
			PostedAt: day.Add(slots[rng.IntN(len(slots))]),
			HasTime:  true,
		})
	}
	ScoreEngagement(posts)
	return posts
}

// between 闭区间随机数
func between(rng *rand.Rand, s span) int64 {
	return s.min + rng.Int64N(s.max-s.min+1)
}
