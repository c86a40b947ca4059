package cmd

import (
	"context"

	"github.com/haierkeys/locket-service/internal/routers/mcp_router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	var config, token string

	var mcpCommand = &cobra.Command{
		Use:   "mcp [--token T] [-c config_file]",
		Short: "Serve the agent protocol over stdio",
		Long:  "Serve the agent protocol over stdin/stdout. Without --token only the public tools work.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			var uid int64
			if token != "" {
				claims, err := a.TokenService.ValidateToken(context.Background(), token)
				if err != nil {
					return err
				}
				uid = claims.UID
			}

			a.Logger().Info("mcp stdio server starting", zap.Int64("uid", uid))
			return mcp_router.ServeStdio(mcp_router.NewServer(a), uid)
		},
	}

	rootCmd.AddCommand(mcpCommand)
	fs := mcpCommand.Flags()
	fs.StringVarP(&config, "config", "c", "", "config file")
	fs.StringVar(&token, "token", "", "personal access token of the acting user")
}
