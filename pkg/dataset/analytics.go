package dataset

import (
	"math"
	"sort"
	"strings"
	"time"
)

// 排行榜条数范围
const (
	DefaultTopN = 10
	MinTopN     = 5
	MaxTopN     = 20
)

// Summary 关键指标
type Summary struct {
	TotalPosts  int     `json:"total_posts"`
	AvgLikes    float64 `json:"avg_likes"`
	AvgComments float64 `json:"avg_comments"`
	AvgShares   float64 `json:"avg_shares"`
	AvgViews    float64 `json:"avg_views"`

	TotalEngagement   int64   `json:"total_engagement"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	BestType          string  `json:"best_type,omitempty"` // 平均互动率最高的类型
}

// TypeAverage 某类帖子的指标均值
type TypeAverage struct {
	Type    string  `json:"post_type"`
	Average float64 `json:"average"`
}

// TypeCount 帖子类型分布
type TypeCount struct {
	Type  string  `json:"post_type"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// TrendPoint 某一天的指标均值
type TrendPoint struct {
	Day    string             `json:"day"`
	Values map[Metric]float64 `json:"values"`
}

// HourCell 某个发布小时内某类帖子的平均互动率
type HourCell struct {
	Hour    int     `json:"hour"`
	Type    string  `json:"post_type"`
	AvgRate float64 `json:"avg_engagement_rate"`
	Count   int     `json:"count"`
}

// CorrelationMatrix 指标两两之间的皮尔逊相关系数
type CorrelationMatrix struct {
	Metrics []Metric    `json:"metrics"`
	Values  [][]float64 `json:"values"`
}

// DateRange 数据集覆盖的日期范围
func DateRange(posts []Post) (first, last time.Time) {
	for i, p := range posts {
		if i == 0 || p.PostedAt.Before(first) {
			first = p.PostedAt
		}
		if i == 0 || p.PostedAt.After(last) {
			last = p.PostedAt
		}
	}
	return first, last
}

// Filter 按发布日期过滤，起止日期均包含在内，零值表示不限
func Filter(posts []Post, start, end time.Time) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		day := p.Day()
		if !start.IsZero() && day.Before(truncateDay(start, day.Location())) {
			continue
		}
		if !end.IsZero() && day.After(truncateDay(end, day.Location())) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterTypes 只保留指定类型的帖子，types 为空时不过滤
func FilterTypes(posts []Post, types []string) []Post {
	if len(types) == 0 {
		return posts
	}
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := wanted[p.Type]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SearchID 按帖子 ID 子串查找，忽略大小写，term 为空时不过滤
func SearchID(posts []Post, term string) []Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.ID), term) {
			out = append(out, p)
		}
	}
	return out
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Summarize 计算帖子总数和各指标均值
func Summarize(posts []Post) Summary {
	s := Summary{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return s
	}
	s.AvgLikes = mean(posts, MetricLikes)
	s.AvgComments = mean(posts, MetricComments)
	s.AvgShares = mean(posts, MetricShares)
	s.AvgViews = mean(posts, MetricViews)

	var rateSum float64
	for _, p := range posts {
		s.TotalEngagement += p.TotalEngagement
		rateSum += p.EngagementRate
	}
	s.AvgEngagementRate = rateSum / float64(len(posts))

	// 平均互动率相同时取类型名靠前的
	groups := groupByType(posts)
	best := math.Inf(-1)
	for _, typ := range sortedTypes(groups) {
		if rate := meanRate(groups[typ]); rate > best {
			best, s.BestType = rate, typ
		}
	}
	return s
}

// HourlyEngagement 按发布小时和类型统计平均互动率，结果按小时、类型排序。
// 没有发布时间的帖子不参与统计。
func HourlyEngagement(posts []Post) []HourCell {
	type cellKey struct {
		hour int
		typ  string
	}
	groups := make(map[cellKey][]Post)
	for _, p := range posts {
		if !p.HasTime {
			continue
		}
		k := cellKey{hour: p.PostedAt.Hour(), typ: p.Type}
		groups[k] = append(groups[k], p)
	}

	out := make([]HourCell, 0, len(groups))
	for k, group := range groups {
		out = append(out, HourCell{Hour: k.hour, Type: k.typ, AvgRate: meanRate(group), Count: len(group)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// BestHour 平均互动率最高的发布小时，相同时取较早的小时。没有带时间的帖子时 ok 为 false。
func BestHour(posts []Post) (hour int, ok bool) {
	var sums [24]float64
	var counts [24]int
	for _, p := range posts {
		if !p.HasTime {
			continue
		}
		sums[p.PostedAt.Hour()] += p.EngagementRate
		counts[p.PostedAt.Hour()]++
	}

	best := math.Inf(-1)
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		if rate := sums[h] / float64(counts[h]); rate > best {
			best, hour, ok = rate, h, true
		}
	}
	return hour, ok
}

// AverageByType 按帖子类型统计指标均值，结果按类型名排序
func AverageByType(posts []Post, m Metric) []TypeAverage {
	groups := groupByType(posts)
	out := make([]TypeAverage, 0, len(groups))
	for typ, group := range groups {
		out = append(out, TypeAverage{Type: typ, Average: mean(group, m)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Distribution 帖子类型占比，结果按类型名排序
func Distribution(posts []Post) []TypeCount {
	groups := groupByType(posts)
	out := make([]TypeCount, 0, len(groups))
	for typ, group := range groups {
		out = append(out, TypeCount{
			Type:  typ,
			Count: len(group),
			Share: float64(len(group)) / float64(len(posts)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// DailyTrend 每日指标均值，按日期升序
func DailyTrend(posts []Post, metrics []Metric) []TrendPoint {
	days := make(map[string][]Post)
	for _, p := range posts {
		key := p.Day().Format("2006-01-02")
		days[key] = append(days[key], p)
	}

	out := make([]TrendPoint, 0, len(days))
	for day, group := range days {
		point := TrendPoint{Day: day, Values: make(map[Metric]float64, len(metrics))}
		for _, m := range metrics {
			point.Values[m] = mean(group, m)
		}
		out = append(out, point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Correlation 四个指标的相关系数矩阵。方差为 0 时系数记为 0。
func Correlation(posts []Post) CorrelationMatrix {
	n := len(Metrics)
	matrix := CorrelationMatrix{
		Metrics: append([]Metric{}, Metrics...),
		Values:  make([][]float64, n),
	}
	for i := range matrix.Values {
		matrix.Values[i] = make([]float64, n)
		for j := range matrix.Values[i] {
			matrix.Values[i][j] = pearson(posts, Metrics[i], Metrics[j])
		}
	}
	return matrix
}

// ClampTopN 排行榜条数限制在 [MinTopN, MaxTopN]，0 使用默认值
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return DefaultTopN
	case n < MinTopN:
		return MinTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

// TopPosts 按指标降序取前 n 条，数值相同按 ID 排序
func TopPosts(posts []Post, m Metric, n int) []Post {
	sorted := append([]Post{}, posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := sorted[i].Value(m), sorted[j].Value(m)
		if vi != vj {
			return vi > vj
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func groupByType(posts []Post) map[string][]Post {
	groups := make(map[string][]Post)
	for _, p := range posts {
		groups[p.Type] = append(groups[p.Type], p)
	}
	return groups
}

func sortedTypes(groups map[string][]Post) []string {
	types := make([]string, 0, len(groups))
	for typ := range groups {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

func meanRate(posts []Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range posts {
		sum += p.EngagementRate
	}
	return sum / float64(len(posts))
}

func mean(posts []Post, m Metric) float64 {
	if len(posts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range posts {
		sum += p.Value(m)
	}
	return sum / float64(len(posts))
}

func pearson(posts []Post, a, b Metric) float64 {
	if len(posts) < 2 {
		return 0
	}
	ma, mb := mean(posts, a), mean(posts, b)
	var cov, va, vb float64
	for _, p := range posts {
		da, db := p.Value(a)-ma, p.Value(b)-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}
