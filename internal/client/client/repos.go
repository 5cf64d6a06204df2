package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
)

func (c *Client) MyRepos(ctx context.Context, opts ListOptions) (Page[models.Repo], error) {
	return getList[models.Repo](ctx, c, "/user/repos", opts.values())
}

func (c *Client) UserRepos(ctx context.Context, login string, opts ListOptions) (Page[models.Repo], error) {
	return getList[models.Repo](ctx, c, pathf("/users/%s/repos", login), opts.values())
}

func (c *Client) OrgRepos(ctx context.Context, org string, opts ListOptions) (Page[models.Repo], error) {
	return getList[models.Repo](ctx, c, pathf("/orgs/%s/repos", org), opts.values())
}

// StarredRepos lists repositories starred by login, or by the authenticated
// user when login is empty.
func (c *Client) StarredRepos(ctx context.Context, login string, opts ListOptions) (Page[models.Repo], error) {
	path := "/user/starred"
	if login != "" {
		path = pathf("/users/%s/starred", login)
	}
	return getList[models.Repo](ctx, c, path, opts.values())
}

// SearchOptions filters GET /search/repositories.
type SearchOptions struct {
	ListOptions
	Query string
	// Sort is "stars_count", "forks_count", "watches_count" or "last_push_at".
	Sort  string
	Order string
}

func (c *Client) SearchRepos(ctx context.Context, opts SearchOptions) (Page[models.Repo], error) {
	q := opts.values()
	q.Set("q", opts.Query)
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	return getList[models.Repo](ctx, c, "/search/repositories", q)
}

// BranchListOptions filters GET /repos/{owner}/{repo}/branches.
type BranchListOptions struct {
	ListOptions
	Sort      string
	Direction string
}

func (c *Client) Branches(ctx context.Context, owner, repo string, opts BranchListOptions) (Page[models.Branch], error) {
	q := opts.values()
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Direction != "" {
		q.Set("direction", opts.Direction)
	}
	return getList[models.Branch](ctx, c, pathf("/repos/%s/%s/branches", owner, repo), q)
}

// CreateBranch creates branch name from refs (a branch, tag or commit).
func (c *Client) CreateBranch(ctx context.Context, owner, repo, refs, name string) (models.Branch, error) {
	var b models.Branch
	err := c.getJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   pathf("/repos/%s/%s/branches", owner, repo),
		Body:   map[string]string{"refs": refs, "branch_name": name},
	}, &b)
	return b, err
}

var newlines = strings.NewReplacer("\n", "", "\r", "")

// Readme fetches the README of owner/repo at ref (default branch when
// empty) and decodes its content.
func (c *Client) Readme(ctx context.Context, owner, repo, ref string) (models.Readme, error) {
	var r models.Readme
	path := pathf("/repos/%s/%s/readme", owner, repo)
	q := url.Values{}
	if ref != "" {
		q.Set("ref", ref)
	}
	if err := c.getJSON(ctx, Request{Path: path, Query: q}, &r); err != nil {
		return models.Readme{}, err
	}
	if r.Encoding != "" && r.Encoding != "base64" {
		return r, nil
	}
	content, err := base64.StdEncoding.DecodeString(newlines.Replace(r.Content))
	if err != nil {
		return models.Readme{}, &DecodeError{Path: path, Err: fmt.Errorf("readme content: %w", err)}
	}
	r.Content = string(content)
	return r, nil
}

func (c *Client) Repo(ctx context.Context, owner, repo string) (models.Repo, error) {
	var r models.Repo
	err := c.getJSON(ctx, Request{Path: pathf("/repos/%s/%s", owner, repo)}, &r)
	return r, err
}

func (c *Client) StarRepo(ctx context.Context, owner, repo string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPut, Path: pathf("/user/starred/%s/%s", owner, repo)})
	return err
}

func (c *Client) UnstarRepo(ctx context.Context, owner, repo string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: pathf("/user/starred/%s/%s", owner, repo)})
	return err
}

// IsStarred reports whether the authenticated user starred owner/repo. The
// API answers 204 for yes and 404 for no.
func (c *Client) IsStarred(ctx context.Context, owner, repo string) (bool, error) {
	_, err := c.Do(ctx, Request{Path: pathf("/user/starred/%s/%s", owner, repo)})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WatchRepo subscribes the authenticated user to owner/repo.
func (c *Client) WatchRepo(ctx context.Context, owner, repo string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   pathf("/repos/%s/%s/subscription", owner, repo),
		Body:   map[string]string{"watch_type": "watching"},
	})
	return err
}

func (c *Client) UnwatchRepo(ctx context.Context, owner, repo string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: pathf("/repos/%s/%s/subscription", owner, repo)})
	return err
}
