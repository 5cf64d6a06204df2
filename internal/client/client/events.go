package client

import (
	"context"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
)

// UserEvents lists the public activity of login.
func (c *Client) UserEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error) {
	return getList[models.Event](ctx, c, pathf("/users/%s/events", login), opts.values())
}

// ReceivedEvents lists the activity feed login receives from followed users
// and watched repositories.
func (c *Client) ReceivedEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error) {
	return getList[models.Event](ctx, c, pathf("/users/%s/received_events", login), opts.values())
}

// ReceivedPublicEvents is ReceivedEvents restricted to public activity.
func (c *Client) ReceivedPublicEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error) {
	return getList[models.Event](ctx, c, pathf("/users/%s/received_events/public", login), opts.values())
}
