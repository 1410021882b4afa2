// Package analytics 仪表盘统计接口
package analytics

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"socialpulse/app/requests"
	"socialpulse/pkg/dataset"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/response"
)

// dayLayout 返回结果中的日期格式
const dayLayout = "2006-01-02"

// PostSource 帖子数据来源
type PostSource interface {
	Posts() ([]dataset.Post, error)
}

// AnalyticsController 统计控制器
type AnalyticsController struct {
	source PostSource
}

// NewAnalyticsController 创建控制器
func NewAnalyticsController(source PostSource) *AnalyticsController {
	return &AnalyticsController{source: source}
}

// Summary 关键指标，附带数据集整体的日期范围
func (ac *AnalyticsController) Summary(c *gin.Context) {
	all, posts, query, ok := ac.load(c)
	if !ok {
		return
	}

	data := gin.H{
		"summary": dataset.Summarize(posts),
		"start":   formatDay(query.Start),
		"end":     formatDay(query.End),
	}
	if first, last := dataset.DateRange(all); len(all) > 0 {
		data["available_from"] = first.Format(dayLayout)
		data["available_to"] = last.Format(dayLayout)
	}
	response.Data(c, data)
}

// ByType 各类型帖子的指标均值
func (ac *AnalyticsController) ByType(c *gin.Context) {
	_, posts, query, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, gin.H{
		"metric": query.Metric,
		"items":  dataset.AverageByType(posts, query.Metric),
	})
}

// Distribution 帖子类型分布
func (ac *AnalyticsController) Distribution(c *gin.Context) {
	_, posts, _, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, gin.H{
		"items": dataset.Distribution(posts),
	})
}

// Trend 每日指标均值
func (ac *AnalyticsController) Trend(c *gin.Context) {
	_, posts, query, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, gin.H{
		"metrics": query.Metrics,
		"points":  dataset.DailyTrend(posts, query.Metrics),
	})
}

// Correlation 指标相关性矩阵
func (ac *AnalyticsController) Correlation(c *gin.Context) {
	_, posts, _, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, dataset.Correlation(posts))
}

// Top 按指标排行的帖子
func (ac *AnalyticsController) Top(c *gin.Context) {
	_, posts, query, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, gin.H{
		"metric": query.Metric,
		"n":      query.TopN,
		"items":  dataset.TopPosts(posts, query.Metric, query.TopN),
	})
}

// Hourly 各发布小时、各类型的平均互动率
func (ac *AnalyticsController) Hourly(c *gin.Context) {
	_, posts, _, ok := ac.load(c)
	if !ok {
		return
	}
	data := gin.H{
		"cells":     dataset.HourlyEngagement(posts),
		"best_hour": nil,
	}
	if hour, found := dataset.BestHour(posts); found {
		data["best_hour"] = hour
	}
	response.Data(c, data)
}

// Posts 过滤后的帖子明细，按发布时间倒序，format=csv 时以附件下载
func (ac *AnalyticsController) Posts(c *gin.Context) {
	_, posts, query, ok := ac.load(c)
	if !ok {
		return
	}

	sorted := append([]dataset.Post{}, posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].PostedAt.Equal(sorted[j].PostedAt) {
			return sorted[i].PostedAt.After(sorted[j].PostedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	if query.Format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="posts.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := dataset.Write(c.Writer, sorted); err != nil {
			logger.ErrorString("Analytics", "Export", err.Error())
		}
		return
	}

	response.Data(c, gin.H{
		"total": len(sorted),
		"items": sorted,
	})
}

// load 解析查询参数并按日期、类型和 ID 关键字过滤，失败时已写入响应
func (ac *AnalyticsController) load(c *gin.Context) (all, filtered []dataset.Post, query requests.AnalyticsQuery, ok bool) {
	query, err := requests.ValidateAnalytics(c)
	if err != nil {
		if verr, isValidation := err.(requests.ValidationError); isValidation {
			response.ValidationError(c, verr.Errors)
		} else {
			response.BadRequest(c, err)
		}
		return nil, nil, query, false
	}

	all, err = ac.source.Posts()
	if err != nil {
		logger.ErrorString("Analytics", "Load", err.Error())
		response.Abort503(c, "数据集暂不可用")
		return nil, nil, query, false
	}

	filtered = dataset.Filter(all, query.Start, query.End)
	filtered = dataset.FilterTypes(filtered, query.Types)
	filtered = dataset.SearchID(filtered, query.Search)
	return all, filtered, query, true
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dayLayout)
}
