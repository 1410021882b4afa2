// Package cmd 存放程序的所有子命令
package cmd

import (
	"os"

	"socialpulse/bootstrap"
	"socialpulse/pkg/config"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// Env 存储全局选项 --env 的值
var Env string

// NewRootCmd 创建根命令并注册所有子命令
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "socialpulse",
		Short: "Social media engagement dashboard backend",
		Long:  `Default will run "serve" command, you can use "-h" flag to see all subcommands`,

		SilenceUsage: true,

		// rootCmd 的所有子命令都会执行以下代码
		PersistentPreRun: func(command *cobra.Command, args []string) {
			// 配置初始化，依赖命令行 --env 参数
			config.InitConfig(Env)

			// 初始化 Logger
			bootstrap.SetupLogger()
		},
	}

	rootCmd.AddCommand(
		NewServeCmd(),
		NewAskCmd(),
		NewGenerateCmd(),
		NewSummaryCmd(),
	)

	// 注册全局参数，--env
	rootCmd.PersistentFlags().StringVarP(&Env, "env", "e", "", "load .env file, example: --env=testing will use .env.testing file")

	return rootCmd
}

// RegisterDefaultCmd 没有指定子命令时执行 subCmd
func RegisterDefaultCmd(rootCmd *cobra.Command, subCmd string) {
	cmd, _, err := rootCmd.Find(os.Args[1:])
	firstArg := ""
	if len(os.Args) > 1 {
		firstArg = os.Args[1]
	}
	if err == nil && cmd.Use == rootCmd.Use && firstArg != "-h" && firstArg != "--help" {
		args := append([]string{subCmd}, os.Args[1:]...)
		rootCmd.SetArgs(args)
	}
}

// renderMarkdown 在终端渲染 Markdown，渲染失败时原样返回
func renderMarkdown(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
