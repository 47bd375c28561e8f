package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/newsApp/internal/appentry"
	"github.com/0x0BSoD/newsApp/internal/config"
)

type cli struct {
	cfgFiles []string
	app      *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "news-app",
		Short: "Read, search and bookmark news from the terminal",
		Long: `news-app browses a paged news feed, searches it and keeps bookmarks
in a local database.

Without a subcommand it shows the onboarding pages on first start and the
news feed afterwards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return c.open(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
		RunE: c.runStart,
	}

	root.PersistentFlags().StringSliceVar(&c.cfgFiles, "config", nil, "config files (default ./config.hcl, ./config.local.hcl, ~/.config/news-app/config.hcl)")

	root.AddCommand(
		c.newsCmd(),
		c.searchCmd(),
		c.browseCmd(),
		c.bookmarksCmd(),
		c.detailsCmd(),
		c.shareCmd(),
		c.openCmd(),
		c.onboardCmd(),
		c.serveCmd(),
	)

	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	var cfg config.Config
	if len(c.cfgFiles) > 0 {
		var err error
		if cfg, err = config.Load(c.cfgFiles...); err != nil {
			return err
		}
	} else {
		cfg = config.Get()
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) runStart(cmd *cobra.Command, _ []string) error {
	route, err := c.app.entry.StartDestination(cmd.Context())
	if err != nil {
		return err
	}

	if route == appentry.RouteOnboarding {
		if err := c.onboard(cmd); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	return c.printFeed(cmd, c.app.catalog.GetNews(c.app.sources()), 1)
}
