package cmd

import (
	"fmt"
	"strings"

	"socialpulse/pkg/config"
	"socialpulse/pkg/dataset"

	"github.com/spf13/cobra"
)

// NewSummaryCmd 在终端输出数据集概览
func NewSummaryCmd() *cobra.Command {
	var (
		file   string
		metric string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print key metrics of the posts dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = config.GetString("dataset.path")
			}
			m, err := dataset.ParseMetric(metric)
			if err != nil {
				return err
			}
			posts, err := dataset.Load(file)
			if err != nil {
				return err
			}

			report := summaryMarkdown(posts, m)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), report)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "dataset CSV path (default: dataset.path)")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(dataset.MetricLikes), "metric used for the by-type and top tables")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func summaryMarkdown(posts []dataset.Post, m dataset.Metric) string {
	var b strings.Builder
	s := dataset.Summarize(posts)

	b.WriteString("# Engagement summary\n\n")
	if first, last := dataset.DateRange(posts); len(posts) > 0 {
		fmt.Fprintf(&b, "%s to %s\n\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	b.WriteString("| Posts | Avg likes | Avg comments | Avg shares | Avg views | Total engagement | Avg engagement rate |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %.1f | %.1f | %.1f | %.1f | %d | %.1f%% |\n\n",
		s.TotalPosts, s.AvgLikes, s.AvgComments, s.AvgShares, s.AvgViews, s.TotalEngagement, s.AvgEngagementRate)
	if s.BestType != "" {
		fmt.Fprintf(&b, "Best performing type: **%s**\n\n", s.BestType)
	}
	if hour, ok := dataset.BestHour(posts); ok {
		fmt.Fprintf(&b, "Best posting hour: **%02d:00**\n\n", hour)
	}

	fmt.Fprintf(&b, "## Average %s by post type\n\n", m)
	b.WriteString("| Type | Posts | Share | Average |\n|---|---|---|---|\n")
	counts := map[string]dataset.TypeCount{}
	for _, c := range dataset.Distribution(posts) {
		counts[c.Type] = c
	}
	for _, avg := range dataset.AverageByType(posts, m) {
		c := counts[avg.Type]
		fmt.Fprintf(&b, "| %s | %d | %.1f%% | %.1f |\n", avg.Type, c.Count, c.Share*100, avg.Average)
	}

	fmt.Fprintf(&b, "\n## Top %d posts by %s\n\n", dataset.MinTopN, m)
	b.WriteString("| Post | Type | Value | Date |\n|---|---|---|---|\n")
	for _, p := range dataset.TopPosts(posts, m, dataset.MinTopN) {
		fmt.Fprintf(&b, "| %s | %s | %.0f | %s |\n", p.ID, p.Type, p.Value(m), p.PostedAt.Format("2006-01-02"))
	}
	return b.String()
}
