package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/spf13/cobra"
)

func newLoginCmd(s *state) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Add a Gitee account with a personal access token",
		Long: `Validate a personal access token against GET /user and remember the
account. The new account becomes the current one.

Without --token the token is read from the terminal without echo, or from
stdin when it is piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				b, err := GetSecret(s.in, "Gitee access token", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				token = string(b)
				common.WipeByteArray(b)
			}

			p, secure, err := s.app.auth.Login(cmd.Context(), token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s (id %d)\n", p.DisplayName(), p.ID)
			where := "vault"
			if !secure {
				where = "plaintext store"
			}
			fmt.Fprintf(out, "Token %s saved to the %s\n", common.MaskToken(strings.TrimSpace(token)), where)
			if !secure {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: token stored unencrypted. Set GITEEKIT_VAULT_PASSPHRASE or use --ask-passphrase to encrypt it.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&token, "token", "t", "", "personal access token")
	return cmd
}

func newWhoamiCmd(s *state) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				p   models.Profile
				err error
			)
			if refresh {
				p, err = s.app.auth.RefreshCurrent(cmd.Context())
			} else {
				var ok bool
				if p, ok = s.app.sessions.CurrentProfile(); !ok {
					err = common.ErrNoCurrentProfile
				}
			}
			if err != nil {
				return err
			}
			printProfile(cmd, p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch the profile from Gitee first")
	return cmd
}

func newUserCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "user <login>",
		Short: "Show a user's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.app.api.User(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProfile(cmd, p)
			return nil
		},
	}
}

func newProfileCmd(s *state) *cobra.Command {
	var name, blog, weibo, bio string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the current account's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var u models.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &name
			}
			if flags.Changed("blog") {
				u.Blog = &blog
			}
			if flags.Changed("weibo") {
				u.Weibo = &weibo
			}
			if flags.Changed("bio") {
				u.Bio = &bio
			}
			if u == (models.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update: set at least one of --name, --blog, --weibo, --bio")
			}
			if _, ok := s.app.sessions.CurrentProfile(); !ok {
				return common.ErrNoCurrentProfile
			}

			p, err := s.app.api.UpdateAuthenticatedUser(cmd.Context(), u)
			if err != nil {
				return err
			}
			if !s.app.sessions.UpdateCurrentProfile(cmd.Context(), p) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: updated profile %s was not saved locally; run 'giteekit whoami --refresh' after switching to it.\n", p.Login)
			}
			printProfile(cmd, p)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&blog, "blog", "", "blog URL")
	cmd.Flags().StringVar(&weibo, "weibo", "", "weibo handle")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	return cmd
}

func printProfile(cmd *cobra.Command, p models.Profile) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Login:\t%s\n", p.Login)
	fmt.Fprintf(w, "ID:\t%d\n", p.ID)
	if p.Name != nil && *p.Name != "" {
		fmt.Fprintf(w, "Name:\t%s\n", *p.Name)
	}
	if p.Bio != "" {
		fmt.Fprintf(w, "Bio:\t%s\n", p.Bio)
	}
	if p.HTMLURL != "" {
		fmt.Fprintf(w, "URL:\t%s\n", p.HTMLURL)
	}
	fmt.Fprintf(w, "Repos:\t%d\n", p.PublicRepos)
	fmt.Fprintf(w, "Followers:\t%d\n", p.Followers)
	fmt.Fprintf(w, "Following:\t%d\n", p.Following)
	_ = w.Flush()
}

func newAccountsCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage known accounts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List known accounts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cur, hasCur := s.app.sessions.CurrentID()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\tID\tLOGIN\tNAME")
				for _, p := range s.app.sessions.Profiles() {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", marker(hasCur && cur == p.ID), p.ID, p.Login, p.DisplayName())
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "switch <id|login>",
			Short: "Make another known account current",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := findProfile(s, args[0])
				if err != nil {
					return err
				}
				if err := s.app.auth.Switch(cmd.Context(), p.ID); err != nil {
					return fmt.Errorf("switch to %s: %w", p.Login, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", p.Login)
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the current account and its token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, _ := s.app.sessions.CurrentProfile()
				if err := s.app.auth.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s\n", p.Login)
				if next, ok := s.app.sessions.CurrentProfile(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Current account is now %s\n", next.Login)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout-all",
			Short: "Forget every account and token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.app.auth.LogoutAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All accounts removed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Re-fetch the current account's profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := s.app.auth.RefreshCurrent(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %s\n", p.Login)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show unread counters for every account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rows, err := s.app.auth.Overview(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\tLOGIN\tNOTIFICATIONS\tMESSAGES\tSTATUS")
				for _, r := range rows {
					n, m, status := "-", "-", "ok"
					switch {
					case !r.HasToken:
						status = "no token"
					case r.Err != nil:
						status = r.Err.Error()
					case r.Unread != nil:
						n = strconv.Itoa(r.Unread.NotificationCount)
						m = strconv.Itoa(r.Unread.MessageCount)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker(r.Current), r.Profile.Login, n, m, status)
				}
				return w.Flush()
			},
		},
	)
	return cmd
}

func marker(current bool) string {
	if current {
		return "*"
	}
	return ""
}

// findProfile resolves a numeric id or a login among the known accounts.
func findProfile(s *state, ref string) (models.Profile, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if p, ok := s.app.sessions.Profile(id); ok {
			return p, nil
		}
	}
	for _, p := range s.app.sessions.Profiles() {
		if strings.EqualFold(p.Login, ref) {
			return p, nil
		}
	}
	return models.Profile{}, fmt.Errorf("unknown account %q", ref)
}
