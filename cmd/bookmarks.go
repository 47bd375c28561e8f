package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/newsApp/internal/model"
)

func (c *cli) bookmarksCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "List saved articles, latest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return c.watchBookmarks(cmd)
			}

			articles, err := c.app.catalog.Bookmarks(cmd.Context())
			if err != nil {
				return err
			}
			if len(articles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no bookmarks yet")
				return nil
			}
			printArticles(cmd.OutOrStdout(), 0, articles)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing the list whenever it changes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <url>",
			Short: "Print a saved article as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				article, err := c.app.catalog.SelectArticle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if article == nil {
					return fmt.Errorf("%s is not bookmarked", args[0])
				}
				return encodeJSON(cmd, article)
			},
		},
		&cobra.Command{
			Use:   "add",
			Short: "Save an article read as JSON from stdin",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				article, err := decodeArticle(cmd)
				if err != nil {
					return err
				}
				if err := c.app.catalog.Upsert(cmd.Context(), article); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Article saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Save the article read from stdin, or remove it if already saved",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				article, err := decodeArticle(cmd)
				if err != nil {
					return err
				}
				action, err := c.app.catalog.ToggleBookmark(cmd.Context(), article)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), action)
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <url>",
			Aliases: []string{"rm"},
			Short:   "Remove a saved article",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.catalog.Delete(cmd.Context(), model.Article{URL: args[0]}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Article deleted")
				return nil
			},
		},
	)

	return cmd
}

func (c *cli) watchBookmarks(cmd *cobra.Command) error {
	updates, err := c.app.catalog.WatchBookmarks(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for articles := range updates {
		fmt.Fprintf(out, "--- %d bookmarks\n", len(articles))
		printArticles(out, 0, articles)
	}
	return cmd.Context().Err()
}

func decodeArticle(cmd *cobra.Command) (model.Article, error) {
	var article model.Article
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&article); err != nil {
		return model.Article{}, fmt.Errorf("failed to read article: %w", err)
	}
	if article.URL == "" {
		return model.Article{}, errors.New("article url is required")
	}
	return article, nil
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
