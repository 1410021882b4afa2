package requests

import (
	"strconv"
	"strings"
	"time"

	"socialpulse/pkg/dataset"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// dateLayout 查询参数中的日期格式
const dateLayout = "2006-01-02"

// AnalyticsQuery 仪表盘统计的查询参数
type AnalyticsQuery struct {
	Start   time.Time // 零值表示不限
	End     time.Time
	Metric  dataset.Metric
	Metrics []dataset.Metric
	TopN    int
	Types   []string // 为空表示全部类型
	Search  string   // 帖子 ID 关键字
	Format  string   // json 或 csv
}

// ValidateAnalytics 解析统计接口的查询参数
func ValidateAnalytics(c *gin.Context) (AnalyticsQuery, error) {
	rules := govalidator.MapData{
		"start":  []string{"date"},
		"end":    []string{"date"},
		"metric": []string{"in:likes,comments,shares,views"},
		"n":      []string{"numeric"},
		"id":     []string{"max:64"},
		"format": []string{"in:json,csv"},
	}
	messages := govalidator.MapData{
		"start":  []string{"date:开始日期格式应为 YYYY-MM-DD"},
		"end":    []string{"date:结束日期格式应为 YYYY-MM-DD"},
		"metric": []string{"in:指标必须是 likes、comments、shares 或 views"},
		"n":      []string{"numeric:条数必须是数字"},
		"id":     []string{"max:搜索关键字长度不能超过 64 个字符"},
		"format": []string{"in:导出格式必须是 json 或 csv"},
	}
	if err := ValidateQuery(c, rules, messages); err != nil {
		return AnalyticsQuery{}, err
	}

	// 前导 0 按十进制处理
	topN, _ := strconv.Atoi(c.Query("n"))
	q := AnalyticsQuery{
		Metric:  dataset.MetricLikes,
		Metrics: dataset.Metrics,
		TopN:    dataset.ClampTopN(topN),
		Search:  c.Query("id"),
		Format:  "json",
	}
	if v := c.Query("format"); v != "" {
		q.Format = v
	}

	errs := map[string][]string{}
	var err error
	if v := c.Query("start"); v != "" {
		if q.Start, err = time.Parse(dateLayout, v); err != nil {
			errs["start"] = append(errs["start"], "开始日期格式应为 YYYY-MM-DD")
		}
	}
	if v := c.Query("end"); v != "" {
		if q.End, err = time.Parse(dateLayout, v); err != nil {
			errs["end"] = append(errs["end"], "结束日期格式应为 YYYY-MM-DD")
		}
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		errs["end"] = append(errs["end"], "结束日期不能早于开始日期")
	}
	if v := c.Query("metric"); v != "" {
		q.Metric = dataset.Metric(v)
	}
	if v := c.Query("metrics"); v != "" {
		q.Metrics = nil
		for _, name := range strings.Split(v, ",") {
			m, err := dataset.ParseMetric(name)
			if err != nil {
				errs["metrics"] = append(errs["metrics"], err.Error())
				continue
			}
			q.Metrics = append(q.Metrics, m)
		}
	}

	if v := c.Query("types"); v != "" {
		for _, typ := range strings.Split(v, ",") {
			if typ = strings.TrimSpace(typ); typ != "" {
				q.Types = append(q.Types, typ)
			}
		}
		if len(q.Types) == 0 {
			errs["types"] = append(errs["types"], "至少选择一种帖子类型")
		}
	}

	if len(errs) > 0 {
		return AnalyticsQuery{}, ValidationError{Errors: errs}
	}
	return q, nil
}
