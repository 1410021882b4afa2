package main

import (
	"fmt"
	"os"

	"socialpulse/app/cmd"
	btsConfig "socialpulse/config"
)

// 加载应用程序的基础配置
func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()
}

func main() {
	rootCmd := cmd.NewRootCmd()

	// 配置默认运行 Web 服务
	cmd.RegisterDefaultCmd(rootCmd, "serve")

	// 执行主命令
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run app with %v: %s\n", os.Args, err.Error())
		os.Exit(1)
	}
}
