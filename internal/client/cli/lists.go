package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/client/pager"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/spf13/cobra"
)

type listFlags struct {
	limit int
	all   bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "show at most this many items, fetching pages as needed (default one page)")
	cmd.Flags().BoolVar(&f.all, "all", false, "fetch every page")
}

// load drives c according to the flags and returns the items to print.
func load[T any](ctx context.Context, c *pager.Controller[T], f listFlags) ([]T, error) {
	var err error
	switch {
	case f.all:
		err = c.LoadUntil(ctx, 0)
	case f.limit > 0:
		err = c.LoadUntil(ctx, f.limit)
	default:
		err = c.Refresh(ctx)
	}
	if err != nil {
		return nil, err
	}

	items := c.Items()
	if !f.all && f.limit > 0 && len(items) > f.limit {
		items = items[:f.limit]
	}
	return items, nil
}

// table prints a header and one row per item, then a hint when more pages
// exist.
func table[T any](out io.Writer, c *pager.Controller[T], items []T, f listFlags, header string, row func(T) string) error {
	if len(items) == 0 {
		fmt.Fprintln(out, "Nothing to show")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	for _, it := range items {
		fmt.Fprintln(w, row(it))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !f.all && c.HasMore() {
		fmt.Fprintf(out, "(%d shown, more available: use --all or --limit)\n", len(items))
	}
	return nil
}

func runList[T any](cmd *cobra.Command, c *pager.Controller[T], f listFlags, header string, row func(T) string) error {
	items, err := load(cmd.Context(), c, f)
	if err != nil {
		return err
	}
	return table(cmd.OutOrStdout(), c, items, f, header, row)
}

func optArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func userRow(u models.User) string {
	return fmt.Sprintf("%d\t%s\t%s", u.ID, u.Login, u.Name)
}

const userHeader = "ID\tLOGIN\tNAME"

func newFollowersCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "followers [login]",
		Short: "List followers of an account (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, s.app.lists.Followers(optArg(args)), f, userHeader, userRow)
		},
	}
	f.register(cmd)
	return cmd
}

func newFollowingCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "following [login]",
		Short: "List accounts followed by an account (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, s.app.lists.Following(optArg(args)), f, userHeader, userRow)
		},
	}
	f.register(cmd)
	return cmd
}

const repoHeader = "REPO\tSTARS\tVISIBILITY\tDESCRIPTION"

func repoRow(r models.Repo) string {
	vis := "public"
	if r.Private {
		vis = "private"
	}
	return fmt.Sprintf("%s\t%d\t%s\t%s", r.FullName, r.StargazersCount, vis, oneLine(r.Description, 60))
}

func newReposCmd(s *state) *cobra.Command {
	var (
		f   listFlags
		org string
	)
	cmd := &cobra.Command{
		Use:   "repos [login]",
		Short: "List repositories of an account (default: current) or an organization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if org != "" {
				if len(args) > 0 {
					return fmt.Errorf("--org cannot be combined with a login")
				}
				return runList(cmd, s.app.lists.OrgRepos(org), f, repoHeader, repoRow)
			}
			return runList(cmd, s.app.lists.Repos(optArg(args)), f, repoHeader, repoRow)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&org, "org", "", "list repositories of this organization")
	return cmd
}

func newStarredCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "starred [login]",
		Short: "List repositories starred by an account (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, s.app.lists.Starred(optArg(args)), f, repoHeader, repoRow)
		},
	}
	f.register(cmd)
	return cmd
}

func newSearchCmd(s *state) *cobra.Command {
	var (
		f           listFlags
		sort, order string
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return runList(cmd, s.app.lists.SearchRepos(q, sort, order), f, repoHeader, repoRow)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&sort, "sort", "", "stars_count, forks_count, watches_count or last_push_at")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")
	return cmd
}

func newKeysCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List SSH keys of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, s.app.lists.Keys(), f, "ID\tTITLE\tADDED\tKEY",
				func(k models.SSHKey) string {
					return fmt.Sprintf("%d\t%s\t%s\t%s", k.ID, k.Title, when(k.CreatedAt), oneLine(k.Key, 40))
				})
		},
	}
	f.register(cmd)
	return cmd
}

func newOrgsCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "List organizations of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, s.app.lists.Orgs(), f, "ID\tLOGIN\tNAME",
				func(o models.Org) string { return fmt.Sprintf("%d\t%s\t%s", o.ID, o.Login, o.Name) })
		},
	}
	f.register(cmd)
	return cmd
}

func newMembersCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "members <org>",
		Short: "List members of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, s.app.lists.OrgMembers(args[0]), f, userHeader, userRow)
		},
	}
	f.register(cmd)
	return cmd
}

func newEventsCmd(s *state) *cobra.Command {
	var (
		f                listFlags
		received, public bool
	)
	cmd := &cobra.Command{
		Use:   "events [login]",
		Short: "List an account's activity (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := optArg(args)
			if login == "" {
				p, ok := s.app.sessions.CurrentProfile()
				if !ok {
					return common.ErrNoCurrentProfile
				}
				login = p.Login
			}
			c := s.app.lists.Events(login, received)
			if public {
				if !received {
					return fmt.Errorf("--public requires --received")
				}
				c = s.app.lists.ReceivedPublicEvents(login)
			}
			return runList(cmd, c, f, "WHEN\tACTOR\tTYPE\tREPO\tDETAIL", eventRow)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&received, "received", false, "show the feed the account receives instead")
	cmd.Flags().BoolVar(&public, "public", false, "with --received, only public activity")
	return cmd
}

func eventRow(e models.Event) string {
	actor, repo, detail := "", "", ""
	if e.Actor != nil {
		actor = e.Actor.Login
	}
	if e.Repo != nil {
		repo = e.Repo.FullName
	}
	if p, ok := e.Push(); ok {
		detail = fmt.Sprintf("%d commit(s) to %s", len(p.Commits), strings.TrimPrefix(p.Ref, "refs/heads/"))
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", when(e.CreatedAt), actor, e.Type, repo, detail)
}

func when(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
