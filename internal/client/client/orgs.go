package client

import (
	"context"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
)

func (c *Client) MyOrgs(ctx context.Context, opts ListOptions) (Page[models.Org], error) {
	return getList[models.Org](ctx, c, "/user/orgs", opts.values())
}

func (c *Client) Org(ctx context.Context, name string) (models.Org, error) {
	var o models.Org
	err := c.getJSON(ctx, Request{Path: pathf("/orgs/%s", name)}, &o)
	return o, err
}

func (c *Client) OrgMembers(ctx context.Context, name string, opts ListOptions) (Page[models.User], error) {
	return getList[models.User](ctx, c, pathf("/orgs/%s/members", name), opts.values())
}
