package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/dataset"
	"socialpulse/pkg/logger"

	"github.com/spf13/cobra"
)

// NewGenerateCmd 生成模拟的帖子数据
func NewGenerateCmd() *cobra.Command {
	var (
		rows int
		out  string
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic social media posts dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				return fmt.Errorf("rows must be positive, got %d", rows)
			}
			if out == "" {
				out = config.GetString("dataset.path")
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := dataset.Write(f, dataset.Generate(rows, time.Now(), seed)); err != nil {
				return err
			}

			logger.InfoString("Dataset", "Generate", fmt.Sprintf("已生成 %d 条数据: %s", rows, out))
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d posts in %s\n", rows, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 1000, "number of posts to generate")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default: dataset.path)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	return cmd
}
