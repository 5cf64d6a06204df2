package models

import "time"

type Namespace struct {
	ID      int64  `json:"id"`
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
}

type Repo struct {
	ID              int64      `json:"id"`
	FullName        string     `json:"full_name"`
	HumanName       string     `json:"human_name,omitempty"`
	Path            string     `json:"path,omitempty"`
	Name            string     `json:"name"`
	Owner           *User      `json:"owner,omitempty"`
	Namespace       *Namespace `json:"namespace,omitempty"`
	Description     string     `json:"description,omitempty"`
	Private         bool       `json:"private"`
	Fork            bool       `json:"fork"`
	HTMLURL         string     `json:"html_url,omitempty"`
	SSHURL          string     `json:"ssh_url,omitempty"`
	Language        string     `json:"language,omitempty"`
	DefaultBranch   string     `json:"default_branch,omitempty"`
	ForksCount      int        `json:"forks_count"`
	StargazersCount int        `json:"stargazers_count"`
	WatchersCount   int        `json:"watchers_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	PushedAt        *time.Time `json:"pushed_at,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type Org struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Description string `json:"description,omitempty"`
	FollowCount int    `json:"follow_count,omitempty"`
}

type Commit struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

// Branch is one entry of GET /repos/{owner}/{repo}/branches.
type Branch struct {
	Name          string  `json:"name"`
	Commit        *Commit `json:"commit,omitempty"`
	Protected     bool    `json:"protected"`
	ProtectionURL string  `json:"protection_url,omitempty"`
}

// Readme is GET /repos/{owner}/{repo}/readme with Content already decoded
// from base64.
type Readme struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha,omitempty"`
	Size        int    `json:"size"`
	Encoding    string `json:"encoding,omitempty"`
	Content     string `json:"content"`
	HTMLURL     string `json:"html_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// SSHKey is a public key of the authenticated user.
type SSHKey struct {
	ID        int64      `json:"id"`
	Key       string     `json:"key"`
	Title     string     `json:"title,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
