package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/spf13/cobra"
)

func splitRepo(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("expected owner/repo, got %q", ref)
	}
	return owner, repo, nil
}

func newRepoCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "repo <owner/repo>",
		Short: "Show a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			r, err := s.app.api.Repo(ctx, owner, name)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Repo:\t%s\n", r.FullName)
			if r.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", oneLine(r.Description, 200))
			}
			if r.Language != "" {
				fmt.Fprintf(w, "Language:\t%s\n", r.Language)
			}
			fmt.Fprintf(w, "Stars:\t%d\n", r.StargazersCount)
			fmt.Fprintf(w, "Forks:\t%d\n", r.ForksCount)
			fmt.Fprintf(w, "Open issues:\t%d\n", r.OpenIssuesCount)
			if r.HTMLURL != "" {
				fmt.Fprintf(w, "URL:\t%s\n", r.HTMLURL)
			}
			if _, ok := s.app.sessions.CurrentProfile(); ok {
				if starred, err := s.app.api.IsStarred(ctx, owner, name); err == nil {
					fmt.Fprintf(w, "Starred:\t%t\n", starred)
				}
			}
			return w.Flush()
		},
	}
}

// repoAction builds a command that runs do on one owner/repo argument.
func repoAction(use, short, done string, do func(cmd *cobra.Command, owner, repo string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <owner/repo>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			if err := do(cmd, owner, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", done, owner, name)
			return nil
		},
	}
}

func newStarCmd(s *state, star bool) *cobra.Command {
	if star {
		return repoAction("star", "Star a repository", "Starred", func(cmd *cobra.Command, owner, repo string) error {
			return s.app.api.StarRepo(cmd.Context(), owner, repo)
		})
	}
	return repoAction("unstar", "Remove a repository star", "Unstarred", func(cmd *cobra.Command, owner, repo string) error {
		return s.app.api.UnstarRepo(cmd.Context(), owner, repo)
	})
}

func newWatchCmd(s *state, watch bool) *cobra.Command {
	if watch {
		return repoAction("watch", "Watch a repository", "Watching", func(cmd *cobra.Command, owner, repo string) error {
			return s.app.api.WatchRepo(cmd.Context(), owner, repo)
		})
	}
	return repoAction("unwatch", "Stop watching a repository", "Stopped watching", func(cmd *cobra.Command, owner, repo string) error {
		return s.app.api.UnwatchRepo(cmd.Context(), owner, repo)
	})
}

func newReadmeCmd(s *state) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "readme <owner/repo>",
		Short: "Print a repository README",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			r, err := s.app.api.Readme(cmd.Context(), owner, name, ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, r.Content)
			if !strings.HasSuffix(r.Content, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit (default branch when empty)")
	return cmd
}

func newBranchesCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "branches <owner/repo>",
		Short: "List repository branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			return runList(cmd, s.app.lists.Branches(owner, name), f, "BRANCH\tPROTECTED\tCOMMIT",
				func(b models.Branch) string {
					sha := ""
					if b.Commit != nil {
						sha = b.Commit.SHA
					}
					return fmt.Sprintf("%s\t%t\t%s", b.Name, b.Protected, sha)
				})
		},
	}
	f.register(cmd)

	var from string
	create := &cobra.Command{
		Use:   "create <owner/repo> <name>",
		Short: "Create a branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			ref := from
			if ref == "" {
				r, err := s.app.api.Repo(cmd.Context(), owner, name)
				if err != nil {
					return err
				}
				ref = r.DefaultBranch
			}
			b, err := s.app.api.CreateBranch(cmd.Context(), owner, name, ref, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created branch %s from %s\n", b.Name, ref)
			return nil
		},
	}
	create.Flags().StringVar(&from, "from", "", "branch, tag or commit to start from (default branch when empty)")
	cmd.AddCommand(create)
	return cmd
}

func newOrgCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "org <name>",
		Short: "Show an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := s.app.api.Org(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Login:\t%s\n", o.Login)
			fmt.Fprintf(w, "ID:\t%d\n", o.ID)
			if o.Name != "" {
				fmt.Fprintf(w, "Name:\t%s\n", o.Name)
			}
			if o.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", oneLine(o.Description, 200))
			}
			fmt.Fprintf(w, "Followers:\t%d\n", o.FollowCount)
			return w.Flush()
		},
	}
}
