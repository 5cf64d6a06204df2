package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/common"
)

// NotificationListOptions filters GET /notifications/threads.
type NotificationListOptions struct {
	ListOptions
	Unread bool
	// Type is "all", "event" or "referer". Empty means "all".
	Type string
}

// MessageListOptions filters GET /notifications/messages.
type MessageListOptions struct {
	ListOptions
	Unread bool
}

func withUnread(q url.Values, unread bool) url.Values {
	if unread {
		q.Set("unread", "true")
	}
	return q
}

// NotificationCount returns unread counters. token, when non-empty, is sent
// explicitly instead of the resolved one.
func (c *Client) NotificationCount(ctx context.Context, unread bool, token string) (models.NotificationCount, error) {
	var n models.NotificationCount
	r := Request{Path: "/notifications/count", Query: withUnread(url.Values{}, unread)}
	if token != "" {
		r.Header = http.Header{}
		r.Header.Set(common.AuthorizationHeaderName, AuthHeader(token))
	}
	err := c.getJSON(ctx, r, &n)
	return n, err
}

func (c *Client) Notifications(ctx context.Context, opts NotificationListOptions) (Page[models.Notification], error) {
	q := withUnread(opts.values(), opts.Unread)
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	return getList[models.Notification](ctx, c, "/notifications/threads", q)
}

func (c *Client) Messages(ctx context.Context, opts MessageListOptions) (Page[models.Message], error) {
	return getList[models.Message](ctx, c, "/notifications/messages", withUnread(opts.values(), opts.Unread))
}

func (c *Client) NotificationThread(ctx context.Context, id int64) (models.Notification, error) {
	var n models.Notification
	err := c.getJSON(ctx, Request{Path: "/notifications/threads/" + strconv.FormatInt(id, 10)}, &n)
	return n, err
}

func (c *Client) Subscriptions(ctx context.Context, opts ListOptions) (Page[models.Subscription], error) {
	return getList[models.Subscription](ctx, c, "/notifications/threads/subscriptions", opts.values())
}

// SetSubscription creates or updates the subscription of a thread.
func (c *Client) SetSubscription(ctx context.Context, threadID int64, subscribed, ignored bool) (models.Subscription, error) {
	var s models.Subscription
	err := c.getJSON(ctx, Request{
		Method: http.MethodPut,
		Path:   "/notifications/threads/subscriptions/" + strconv.FormatInt(threadID, 10),
		Body:   map[string]bool{"subscribed": subscribed, "ignored": ignored},
	}, &s)
	return s, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/notifications/threads/" + strconv.FormatInt(id, 10),
	})
	return err
}

// MarkAllNotificationsRead marks every notification updated up to before
// as read. A zero before means now.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, before time.Time) error {
	return c.markAll(ctx, "/notifications/threads", before)
}

func (c *Client) MarkAllMessagesRead(ctx context.Context, before time.Time) error {
	return c.markAll(ctx, "/notifications/messages", before)
}

func (c *Client) markAll(ctx context.Context, path string, before time.Time) error {
	var body any
	if !before.IsZero() {
		body = map[string]string{"last_read_at": before.UTC().Format(time.RFC3339)}
	}
	_, err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
	return err
}
