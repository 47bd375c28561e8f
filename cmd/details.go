package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/newsApp/internal/browser"
	"github.com/0x0BSoD/newsApp/internal/model"
)

// lookup returns the saved copy of url, or a bare article when it is not
// bookmarked.
func (c *cli) lookup(ctx context.Context, url string) (model.Article, error) {
	saved, err := c.app.catalog.SelectArticle(ctx, url)
	if err != nil {
		return model.Article{}, err
	}
	if saved != nil {
		return *saved, nil
	}
	return model.Article{URL: url}, nil
}

func (c *cli) detailsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "details <url>",
		Short: "Show the full text of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := c.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				d, err := c.app.reader().Details(cmd.Context(), article)
				if err != nil {
					return err
				}
				return encodeJSON(cmd, d)
			}
			return c.printDetails(cmd, article)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func (c *cli) printDetails(cmd *cobra.Command, article model.Article) error {
	d, err := c.app.reader().Details(cmd.Context(), article)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if article.Title != "" {
		fmt.Fprintf(out, "%s\n\n", article.Title)
	}
	if d.Summary != "" {
		fmt.Fprintf(out, "Summary: %s\n\n", d.Summary)
	}
	fmt.Fprintln(out, d.Text)
	return nil
}

func (c *cli) shareCmd() *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "share <url>",
		Short: "Post an article to the configured Telegram chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := c.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			n, err := c.app.notifier()
			if err != nil {
				return err
			}

			var summary string
			if summarize {
				d, err := c.app.reader().Details(cmd.Context(), article)
				if err != nil {
					return err
				}
				summary = d.Summary
			}

			if err := n.Share(cmd.Context(), article, summary); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Article shared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&summarize, "summary", false, "include an AI summary")

	return cmd
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Open an article in the system browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return browser.Open(args[0])
		},
	}
}
