package services

import (
	"context"

	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/client/pager"
)

// Lists builds pager controllers over the API's list endpoints. An empty
// login selects the authenticated user's own list.
type Lists struct {
	api      client.API
	pageSize int
}

func NewLists(api client.API, pageSize int) *Lists {
	return &Lists{api: api, pageSize: pageSize}
}

func toBatch[T any](p client.Page[T], err error) (pager.Batch[T], error) {
	if err != nil {
		return pager.Batch[T]{}, err
	}
	return pager.Batch[T]{Items: p.Items, TotalCount: p.TotalCount, TotalPages: p.TotalPages}, nil
}

func newController[T any](l *Lists, fetch func(ctx context.Context, o client.ListOptions) (client.Page[T], error), opts []pager.Option[T]) *pager.Controller[T] {
	all := append([]pager.Option[T]{pager.WithPageSize[T](l.pageSize)}, opts...)
	return pager.New(func(ctx context.Context, page, size int, _ bool) (pager.Batch[T], error) {
		p, err := fetch(ctx, client.ListOptions{Page: page, PerPage: size})
		return toBatch(p, err)
	}, all...)
}

func (l *Lists) Followers(login string, opts ...pager.Option[models.User]) *pager.Controller[models.User] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.User], error) {
		if login == "" {
			return l.api.MyFollowers(ctx, o)
		}
		return l.api.Followers(ctx, login, o)
	}, opts)
}

func (l *Lists) Following(login string, opts ...pager.Option[models.User]) *pager.Controller[models.User] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.User], error) {
		if login == "" {
			return l.api.MyFollowing(ctx, o)
		}
		return l.api.Following(ctx, login, o)
	}, opts)
}

func (l *Lists) Repos(login string, opts ...pager.Option[models.Repo]) *pager.Controller[models.Repo] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Repo], error) {
		if login == "" {
			return l.api.MyRepos(ctx, o)
		}
		return l.api.UserRepos(ctx, login, o)
	}, opts)
}

func (l *Lists) Orgs(opts ...pager.Option[models.Org]) *pager.Controller[models.Org] {
	return newController(l, l.api.MyOrgs, opts)
}

func (l *Lists) OrgMembers(org string, opts ...pager.Option[models.User]) *pager.Controller[models.User] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.User], error) {
		return l.api.OrgMembers(ctx, org, o)
	}, opts)
}

func (l *Lists) Notifications(unread bool, kind string, opts ...pager.Option[models.Notification]) *pager.Controller[models.Notification] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Notification], error) {
		return l.api.Notifications(ctx, client.NotificationListOptions{ListOptions: o, Unread: unread, Type: kind})
	}, opts)
}

func (l *Lists) Messages(unread bool, opts ...pager.Option[models.Message]) *pager.Controller[models.Message] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Message], error) {
		return l.api.Messages(ctx, client.MessageListOptions{ListOptions: o, Unread: unread})
	}, opts)
}

// Events lists login's own activity, or the feed login receives when
// received is set.
func (l *Lists) Events(login string, received bool, opts ...pager.Option[models.Event]) *pager.Controller[models.Event] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Event], error) {
		if received {
			return l.api.ReceivedEvents(ctx, login, o)
		}
		return l.api.UserEvents(ctx, login, o)
	}, opts)
}

func (l *Lists) ReceivedPublicEvents(login string, opts ...pager.Option[models.Event]) *pager.Controller[models.Event] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Event], error) {
		return l.api.ReceivedPublicEvents(ctx, login, o)
	}, opts)
}

func (l *Lists) OrgRepos(org string, opts ...pager.Option[models.Repo]) *pager.Controller[models.Repo] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Repo], error) {
		return l.api.OrgRepos(ctx, org, o)
	}, opts)
}

func (l *Lists) Starred(login string, opts ...pager.Option[models.Repo]) *pager.Controller[models.Repo] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Repo], error) {
		return l.api.StarredRepos(ctx, login, o)
	}, opts)
}

func (l *Lists) SearchRepos(query, sort, order string, opts ...pager.Option[models.Repo]) *pager.Controller[models.Repo] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Repo], error) {
		return l.api.SearchRepos(ctx, client.SearchOptions{ListOptions: o, Query: query, Sort: sort, Order: order})
	}, opts)
}

func (l *Lists) Branches(owner, repo string, opts ...pager.Option[models.Branch]) *pager.Controller[models.Branch] {
	return newController(l, func(ctx context.Context, o client.ListOptions) (client.Page[models.Branch], error) {
		return l.api.Branches(ctx, owner, repo, client.BranchListOptions{ListOptions: o})
	}, opts)
}

func (l *Lists) Keys(opts ...pager.Option[models.SSHKey]) *pager.Controller[models.SSHKey] {
	return newController(l, l.api.UserKeys, opts)
}

func (l *Lists) Subscriptions(opts ...pager.Option[models.Subscription]) *pager.Controller[models.Subscription] {
	return newController(l, l.api.Subscriptions, opts)
}
