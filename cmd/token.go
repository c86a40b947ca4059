package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/haierkeys/locket-service/internal/dto"

	"github.com/spf13/cobra"
)

func init() {
	var config string
	var uid int64

	tokenCommand := &cobra.Command{
		Use:   "token",
		Short: "Manage personal access tokens",
	}
	pf := tokenCommand.PersistentFlags()
	pf.StringVarP(&config, "config", "c", "", "config file")
	pf.Int64Var(&uid, "user", 0, "owner user id")
	_ = tokenCommand.MarkPersistentFlagRequired("user")

	params := &dto.TokenCreateRequest{}
	createCommand := &cobra.Command{
		Use:   "create --user ID --name N [--scope S]...",
		Short: "Issue a token; it is printed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			tok, err := a.TokenService.CreateToken(context.Background(), uid, params)
			if err != nil {
				return err
			}
			fmt.Printf("token %s created, store it now:\n%s\n", tok.Token.ID, tok.PlainTextToken)
			return nil
		},
	}
	createCommand.Flags().StringVar(&params.Name, "name", "cli", "token name")
	createCommand.Flags().StringSliceVar(&params.Scopes, "scope", nil, "token scopes, all when empty")

	var tokenID string
	revokeCommand := &cobra.Command{
		Use:   "revoke --user ID --id TOKEN_ID",
		Short: "Revoke a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.TokenService.RevokeToken(context.Background(), uid, tokenID); err != nil {
				return err
			}
			fmt.Printf("token %s revoked\n", tokenID)
			return nil
		},
	}
	revokeCommand.Flags().StringVar(&tokenID, "id", "", "token id")
	_ = revokeCommand.MarkFlagRequired("id")

	listCommand := &cobra.Command{
		Use:   "list --user ID",
		Short: "List active tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			tokens, err := a.TokenService.ListTokens(context.Background(), uid)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAST USED\tCREATED")
			for _, t := range tokens {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.LastUsedAt.String(), t.CreatedAt.String())
			}
			return w.Flush()
		},
	}

	tokenCommand.AddCommand(createCommand, revokeCommand, listCommand)
	rootCmd.AddCommand(tokenCommand)
}
