package models

import "time"

// Profile is a Gitee account as returned by GET /user. It doubles as the
// persisted record of a known account; ID is the identity key.
type Profile struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	URL         string    `json:"url,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
	Remark      string    `json:"remark,omitempty"`
	Type        string    `json:"type,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Weibo       string    `json:"weibo,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Email       string    `json:"email,omitempty"`
	PublicRepos int       `json:"public_repos,omitempty"`
	PublicGists int       `json:"public_gists,omitempty"`
	Followers   int       `json:"followers,omitempty"`
	Following   int       `json:"following,omitempty"`
	Stared      int       `json:"stared,omitempty"`
	Watched     int       `json:"watched,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// DisplayName returns Name when set, otherwise Login.
func (p Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Login
}

// ProfileUpdate is the body of PATCH /user. Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Blog  *string `json:"blog,omitempty"`
	Weibo *string `json:"weibo,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// User is the compact account shape embedded in other resources (followers,
// repo owners, event actors, message senders).
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
	Remark    string `json:"remark,omitempty"`
	Type      string `json:"type,omitempty"`
}
