package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// CSV 列名
const (
	ColumnID       = "Post_ID"
	ColumnType     = "Post_Type"
	ColumnLikes    = "Likes"
	ColumnShares   = "Shares"
	ColumnComments = "Comments"
	ColumnViews    = "Views"
	ColumnDate     = "Post_Date"
	ColumnTime     = "Post_Time"
)

var requiredColumns = []string{
	ColumnID, ColumnType, ColumnLikes, ColumnShares, ColumnComments, ColumnViews, ColumnDate,
}

// ErrMissingColumn 表头缺少必需列
var ErrMissingColumn = errors.New("missing required column")

// Load 从文件读取帖子数据
func Load(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	posts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return posts, nil
}

// Parse 解析 CSV，第一行为表头，列顺序不限
func Parse(r io.Reader) ([]Post, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var posts []Post
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		post, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		posts = append(posts, post)
	}
	ScoreEngagement(posts)
	return posts, nil
}

func parseRecord(record []string, index map[string]int) (Post, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	post := Post{
		ID:   field(ColumnID),
		Type: field(ColumnType),
	}

	counters := []struct {
		col string
		dst *int64
	}{
		{ColumnLikes, &post.Likes},
		{ColumnShares, &post.Shares},
		{ColumnComments, &post.Comments},
		{ColumnViews, &post.Views},
	}
	for _, c := range counters {
		// 按十进制解析，避免前导 0 被当成八进制
		v, err := strconv.ParseInt(field(c.col), 10, 64)
		if err != nil {
			return Post{}, fmt.Errorf("%s: %w", c.col, err)
		}
		*c.dst = v
	}

	postedAt, err := cast.ToTimeInDefaultLocationE(field(ColumnDate), time.UTC)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", ColumnDate, err)
	}
	if clock := field(ColumnTime); clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return Post{}, fmt.Errorf("%s: %w", ColumnTime, err)
		}
		y, m, d := postedAt.Date()
		postedAt = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, postedAt.Location())
		post.HasTime = true
	}
	post.PostedAt = postedAt

	return post, nil
}

// Write 按标准列顺序输出 CSV
func Write(w io.Writer, posts []Post) error {
	writer := csv.NewWriter(w)
	header := append(append([]string{}, requiredColumns...), ColumnTime)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, p := range posts {
		clock := ""
		if p.HasTime {
			clock = p.PostedAt.Format("15:04")
		}
		record := []string{
			p.ID,
			p.Type,
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Shares, 10),
			strconv.FormatInt(p.Comments, 10),
			strconv.FormatInt(p.Views, 10),
			p.PostedAt.Format("2006-01-02"),
			clock,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
