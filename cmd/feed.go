package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/newsApp/internal/browser"
	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

func (c *cli) newsCmd() *cobra.Command {
	var (
		pages   int
		sources []string
	)

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Show the latest news",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(sources) == 0 {
				sources = c.app.sources()
			}
			return c.printFeed(cmd, c.app.catalog.GetNews(sources), pages)
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "source ids (default from config)")

	return cmd
}

func (c *cli) searchCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search news across all sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return c.printFeed(cmd, c.app.catalog.SearchNews(query, c.app.sources()), pages)
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")

	return cmd
}

// printFeed loads up to pages pages and prints each batch as it arrives.
func (c *cli) printFeed(cmd *cobra.Command, pager *paging.Pager[model.Article], pages int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := pager.Refresh(ctx); err != nil {
		return err
	}

	printed := 0
	for loaded := 1; ; loaded++ {
		snap := pager.Snapshot()
		printArticles(out, printed, snap.Items[printed:])
		printed = len(snap.Items)

		if loaded >= pages || snap.LoadStates.Append.EndOfPaginationReached {
			break
		}
		if err := pager.Append(ctx); err != nil {
			return err
		}
	}

	if msg := describeStates(pager.Snapshot().LoadStates); msg != "" {
		fmt.Fprintln(out, msg)
	}
	return nil
}

const browseHelp = `commands:
  enter, n      next page
  r             refresh
  t             retry the failed load
  s <n>         bookmark or remove article n
  d <n>         show details of article n
  o <n>         open article n in the browser
  q             quit`

func (c *cli) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [query]",
		Short: "Page through news interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return c.browse(cmd, c.app.catalog.SearchNews(strings.Join(args, " "), c.app.sources()))
			}
			return c.browse(cmd, c.app.catalog.GetNews(c.app.sources()))
		},
	}
}

// browseSession is one interactive browse. All output is written from the
// goroutine running loop; stdin and the pager's snapshot stream only feed it.
type browseSession struct {
	c     *cli
	cmd   *cobra.Command
	pager *paging.Pager[model.Article]
	out   io.Writer

	printed   int
	lastState string
}

func (c *cli) browse(cmd *cobra.Command, pager *paging.Pager[model.Article]) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	b := &browseSession{c: c, cmd: cmd, pager: pager, out: cmd.OutOrStdout()}
	return b.loop(ctx, cmd.InOrStdin())
}

func (b *browseSession) loop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(b.out, browseHelp)

	updates := b.pager.Subscribe(ctx)
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	_ = b.pager.Refresh(ctx)
	b.show()
	fmt.Fprint(b.out, "> ")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if snap.LoadStates.Refresh.Kind != paging.Loading && snap.LoadStates.Append.Kind != paging.Loading {
				b.report(snap.LoadStates)
			}
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if b.command(ctx, line) {
				return nil
			}
			fmt.Fprint(b.out, "> ")
		}
	}
}

func (b *browseSession) report(states paging.LoadStates) {
	msg := describeStates(states)
	if msg != "" && msg != b.lastState {
		fmt.Fprintln(b.out, msg)
	}
	b.lastState = msg
}

// show prints the items loaded since the last call.
func (b *browseSession) show() {
	snap := b.pager.Snapshot()
	if len(snap.Items) < b.printed {
		b.printed = 0
	}
	printArticles(b.out, b.printed, snap.Items[b.printed:])
	b.printed = len(snap.Items)
	b.report(snap.LoadStates)
}

// command runs one line of input and reports whether to quit.
func (b *browseSession) command(ctx context.Context, line string) bool {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch verb {
	case "", "n":
		_ = b.pager.Append(ctx)
		b.show()
	case "r":
		b.printed = 0
		_ = b.pager.Refresh(ctx)
		b.show()
	case "t":
		_ = b.pager.Retry(ctx)
		b.show()
	case "s", "d", "o":
		article, ok := pick(b.pager, arg)
		if !ok {
			fmt.Fprintln(b.out, "no such article")
			return false
		}
		if err := b.c.articleAction(b.cmd, verb, article); err != nil {
			fmt.Fprintf(b.out, "error: %v\n", err)
		}
		if b.pager.Access(indexOf(arg)) {
			_ = b.pager.Append(ctx)
			b.show()
		}
	case "q":
		return true
	default:
		fmt.Fprintln(b.out, browseHelp)
	}
	return false
}

func indexOf(arg string) int {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return -1
	}
	return n - 1
}

func pick(pager *paging.Pager[model.Article], arg string) (model.Article, bool) {
	i := indexOf(arg)
	items := pager.Snapshot().Items
	if i < 0 || i >= len(items) {
		return model.Article{}, false
	}
	return items[i], true
}

func (c *cli) articleAction(cmd *cobra.Command, verb string, article model.Article) error {
	out := cmd.OutOrStdout()
	switch verb {
	case "s":
		action, err := c.app.catalog.ToggleBookmark(cmd.Context(), article)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, action)
	case "d":
		return c.printDetails(cmd, article)
	case "o":
		return browser.Open(article.URL)
	}
	return nil
}
