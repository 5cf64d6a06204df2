package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(s *state) *cobra.Command {
	var (
		f      listFlags
		unread bool
		kind   string
	)
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List notification threads of the current account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, s.app.lists.Notifications(unread, kind), f, "\tID\tWHEN\tTYPE\tREPO\tTITLE",
				func(n models.Notification) string {
					repo, title, typ := "", n.Content, n.Type
					if n.Repository != nil {
						repo = n.Repository.FullName
					}
					if n.Subject != nil {
						title = n.Subject.Title
						if n.Subject.Type != "" {
							typ = n.Subject.Type
						}
					}
					return fmt.Sprintf("%s\t%d\t%s\t%s\t%s\t%s", unreadMark(n.Unread), n.ID, when(n.UpdatedAt), typ, repo, oneLine(title, 60))
				})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread threads")
	cmd.Flags().StringVar(&kind, "type", "", "thread type filter: event or referer")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark one notification thread as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := threadID(args[0])
				if err != nil {
					return err
				}
				if err := s.app.api.MarkNotificationRead(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d as read\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification thread as read",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.app.api.MarkAllNotificationsRead(cmd.Context(), time.Now()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked as read")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one notification thread",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := threadID(args[0])
				if err != nil {
					return err
				}
				n, err := s.app.api.NotificationThread(cmd.Context(), id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "ID:\t%d\n", n.ID)
				if n.Subject != nil {
					fmt.Fprintf(w, "Title:\t%s\n", n.Subject.Title)
					fmt.Fprintf(w, "Type:\t%s\n", n.Subject.Type)
				}
				if n.Repository != nil {
					fmt.Fprintf(w, "Repo:\t%s\n", n.Repository.FullName)
				}
				if n.Content != "" {
					fmt.Fprintf(w, "Content:\t%s\n", oneLine(n.Content, 200))
				}
				fmt.Fprintf(w, "Unread:\t%t\n", n.Unread)
				fmt.Fprintf(w, "Updated:\t%s\n", when(n.UpdatedAt))
				return w.Flush()
			},
		},
		newSubscriptionsCmd(s),
		newSubscribeCmd(s, true),
		newSubscribeCmd(s, false),
	)
	return cmd
}

func threadID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid notification id %q", arg)
	}
	return id, nil
}

func newSubscriptionsCmd(s *state) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List notification thread subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, s.app.lists.Subscriptions(), f, "ID\tSUBSCRIBED\tIGNORED\tREASON",
				func(sub models.Subscription) string {
					return fmt.Sprintf("%d\t%t\t%t\t%s", sub.ID, sub.Subscribed, sub.Ignored, sub.Reason)
				})
		},
	}
	f.register(cmd)
	return cmd
}

func newSubscribeCmd(s *state, subscribe bool) *cobra.Command {
	var ignore bool
	use, short := "subscribe", "Subscribe to a notification thread"
	if !subscribe {
		use, short = "unsubscribe", "Unsubscribe from a notification thread"
	}
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := threadID(args[0])
			if err != nil {
				return err
			}
			sub, err := s.app.api.SetSubscription(cmd.Context(), id, subscribe, ignore)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Thread %d: subscribed=%t ignored=%t\n", id, sub.Subscribed, sub.Ignored)
			return nil
		},
	}
	if subscribe {
		cmd.Flags().BoolVar(&ignore, "ignore", false, "subscribe but mute the thread")
	}
	return cmd
}

func newMessagesCmd(s *state) *cobra.Command {
	var (
		f      listFlags
		unread bool
	)
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List private messages of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, s.app.lists.Messages(unread), f, "\tID\tWHEN\tFROM\tCONTENT",
				func(m models.Message) string {
					from := ""
					if m.Sender != nil {
						from = m.Sender.Login
					}
					return fmt.Sprintf("%s\t%d\t%s\t%s\t%s", unreadMark(m.Unread), m.ID, when(m.UpdatedAt), from, oneLine(m.Content, 60))
				})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread messages")

	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark every message as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.app.api.MarkAllMessagesRead(cmd.Context(), time.Now()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All messages marked as read")
			return nil
		},
	})
	return cmd
}

func unreadMark(unread bool) string {
	if unread {
		return "●"
	}
	return ""
}
