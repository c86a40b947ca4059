package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/validator"

	"github.com/spf13/cobra"
)

func init() {
	var config string

	userCommand := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	userCommand.PersistentFlags().StringVarP(&config, "config", "c", "", "config file")

	params := &dto.UserCreateRequest{}
	createCommand := &cobra.Command{
		Use:   "create --name N --email E [--github G]",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.NewCustomValidator().ValidateStruct(params); err != nil {
				return err
			}
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := a.UserService.Create(context.Background(), params)
			if err != nil {
				return err
			}
			fmt.Printf("created user %d (%s)\n", u.ID, u.DisplayName)
			return nil
		},
	}
	cf := createCommand.Flags()
	cf.StringVar(&params.Name, "name", "", "display name")
	cf.StringVar(&params.Email, "email", "", "email address")
	cf.StringVar(&params.GithubUsername, "github", "", "github username")
	cf.StringVar(&params.Avatar, "avatar", "", "avatar url")

	var uid int64
	deleteCommand := &cobra.Command{
		Use:   "delete --id ID",
		Short: "Delete a user with their bookmarks, notes, statuses and tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(config)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.UserService.Delete(context.Background(), uid); err != nil {
				return err
			}
			fmt.Printf("deleted user %d\n", uid)
			return nil
		},
	}
	deleteCommand.Flags().Int64Var(&uid, "id", 0, "user id")
	_ = deleteCommand.MarkFlagRequired("id")

	userCommand.AddCommand(createCommand, deleteCommand)
	rootCmd.AddCommand(userCommand)
}
