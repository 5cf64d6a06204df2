package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
)

// API is the endpoint surface used by the services. *Client implements it.
type API interface {
	AuthenticatedUser(ctx context.Context, token string) (models.Profile, error)
	UpdateAuthenticatedUser(ctx context.Context, u models.ProfileUpdate) (models.Profile, error)
	User(ctx context.Context, login string) (models.Profile, error)
	UserKeys(ctx context.Context, opts ListOptions) (Page[models.SSHKey], error)

	MyFollowers(ctx context.Context, opts ListOptions) (Page[models.User], error)
	MyFollowing(ctx context.Context, opts ListOptions) (Page[models.User], error)
	Followers(ctx context.Context, login string, opts ListOptions) (Page[models.User], error)
	Following(ctx context.Context, login string, opts ListOptions) (Page[models.User], error)

	MyRepos(ctx context.Context, opts ListOptions) (Page[models.Repo], error)
	UserRepos(ctx context.Context, login string, opts ListOptions) (Page[models.Repo], error)
	OrgRepos(ctx context.Context, org string, opts ListOptions) (Page[models.Repo], error)
	StarredRepos(ctx context.Context, login string, opts ListOptions) (Page[models.Repo], error)
	SearchRepos(ctx context.Context, opts SearchOptions) (Page[models.Repo], error)
	Repo(ctx context.Context, owner, repo string) (models.Repo, error)
	Readme(ctx context.Context, owner, repo, ref string) (models.Readme, error)
	Branches(ctx context.Context, owner, repo string, opts BranchListOptions) (Page[models.Branch], error)
	CreateBranch(ctx context.Context, owner, repo, refs, name string) (models.Branch, error)
	StarRepo(ctx context.Context, owner, repo string) error
	UnstarRepo(ctx context.Context, owner, repo string) error
	IsStarred(ctx context.Context, owner, repo string) (bool, error)
	WatchRepo(ctx context.Context, owner, repo string) error
	UnwatchRepo(ctx context.Context, owner, repo string) error

	MyOrgs(ctx context.Context, opts ListOptions) (Page[models.Org], error)
	Org(ctx context.Context, name string) (models.Org, error)
	OrgMembers(ctx context.Context, name string, opts ListOptions) (Page[models.User], error)

	NotificationCount(ctx context.Context, unread bool, token string) (models.NotificationCount, error)
	Notifications(ctx context.Context, opts NotificationListOptions) (Page[models.Notification], error)
	Messages(ctx context.Context, opts MessageListOptions) (Page[models.Message], error)
	NotificationThread(ctx context.Context, id int64) (models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, before time.Time) error
	MarkAllMessagesRead(ctx context.Context, before time.Time) error
	Subscriptions(ctx context.Context, opts ListOptions) (Page[models.Subscription], error)
	SetSubscription(ctx context.Context, threadID int64, subscribed, ignored bool) (models.Subscription, error)

	UserEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error)
	ReceivedEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error)
	ReceivedPublicEvents(ctx context.Context, login string, opts ListOptions) (Page[models.Event], error)
}

var _ API = (*Client)(nil)
