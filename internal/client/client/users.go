package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/common"
)

// AuthenticatedUser returns the profile that owns token. An empty token
// falls back to normal token resolution.
func (c *Client) AuthenticatedUser(ctx context.Context, token string) (models.Profile, error) {
	var p models.Profile
	r := Request{Method: http.MethodGet, Path: "/user"}
	if token != "" {
		r.Header = http.Header{}
		r.Header.Set(common.AuthorizationHeaderName, AuthHeader(token))
	}
	err := c.getJSON(ctx, r, &p)
	return p, err
}

func (c *Client) UpdateAuthenticatedUser(ctx context.Context, u models.ProfileUpdate) (models.Profile, error) {
	var p models.Profile
	err := c.getJSON(ctx, Request{Method: http.MethodPatch, Path: "/user", Body: u}, &p)
	return p, err
}

func (c *Client) User(ctx context.Context, login string) (models.Profile, error) {
	var p models.Profile
	err := c.getJSON(ctx, Request{Path: pathf("/users/%s", login)}, &p)
	return p, err
}

func (c *Client) MyFollowers(ctx context.Context, opts ListOptions) (Page[models.User], error) {
	return getList[models.User](ctx, c, "/user/followers", opts.values())
}

func (c *Client) MyFollowing(ctx context.Context, opts ListOptions) (Page[models.User], error) {
	return getList[models.User](ctx, c, "/user/following", opts.values())
}

func (c *Client) Followers(ctx context.Context, login string, opts ListOptions) (Page[models.User], error) {
	return getList[models.User](ctx, c, pathf("/users/%s/followers", login), opts.values())
}

func (c *Client) Following(ctx context.Context, login string, opts ListOptions) (Page[models.User], error) {
	return getList[models.User](ctx, c, pathf("/users/%s/following", login), opts.values())
}

// UserKeys lists the public SSH keys of the authenticated user.
func (c *Client) UserKeys(ctx context.Context, opts ListOptions) (Page[models.SSHKey], error) {
	return getList[models.SSHKey](ctx, c, "/user/keys", opts.values())
}
