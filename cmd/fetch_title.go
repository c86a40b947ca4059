package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/locket-service/internal/service"

	"github.com/gookit/goutil/dump"
	"github.com/spf13/cobra"
)

func init() {
	var debug bool
	var timeout time.Duration

	var fetchCommand = &cobra.Command{
		Use:   "fetch-title <url> [--debug]",
		Short: "Fetch a page title the way the background job does, without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := service.NewTitleFetcher(nil, &service.ServiceConfig{
				Fetcher: service.FetcherConfig{Timeout: timeout},
			})

			res, err := fetcher.Fetch(context.Background(), args[0])
			if debug && res != nil {
				dump.P(res)
			}
			if err != nil {
				return err
			}

			if res.Title == "" {
				fmt.Println("(no title) fallback:", service.FallbackTitle(args[0]))
				return nil
			}
			fmt.Println(res.Title)
			return nil
		},
	}

	rootCmd.AddCommand(fetchCommand)
	fs := fetchCommand.Flags()
	fs.BoolVar(&debug, "debug", false, "dump the full fetch result")
	fs.DurationVar(&timeout, "timeout", service.DefaultFetchTimeout, "request timeout")
}
