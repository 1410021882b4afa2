package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialpulse/bootstrap"
	"socialpulse/pkg/langflow"

	"github.com/spf13/cobra"
)

// NewAskCmd 在终端直接提问，不经过 HTTP 服务
func NewAskCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the chat workflow a single question",
		Example: `  socialpulse ask "Which post type gets the most shares?"
  socialpulse ask --raw "hello"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := bootstrap.SetupLangflow(nil)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			answer, err := gateway.Invoke(context.Background(), query, langflow.DefaultTweaks())
			if err != nil {
				var gwErr *langflow.Error
				if errors.As(err, &gwErr) {
					fmt.Fprintln(cmd.ErrOrStderr(), gwErr.Message)
					return fmt.Errorf("ask failed: %s", gwErr.Kind)
				}
				return err
			}

			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), answer)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(answer))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the answer without markdown rendering")
	return cmd
}
