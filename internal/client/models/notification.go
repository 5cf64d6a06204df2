package models

import "time"

// NotificationCount is the response of GET /notifications/count.
type NotificationCount struct {
	TotalCount        int `json:"total_count"`
	NotificationCount int `json:"notification_count"`
	MessageCount      int `json:"message_count"`
}

func (c NotificationCount) HasUnread() bool {
	return c.TotalCount > 0 || c.NotificationCount > 0 || c.MessageCount > 0
}

type NotificationSubject struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	URL              string `json:"url,omitempty"`
	LatestCommentURL string `json:"latest_comment_url,omitempty"`
}

// Notification is one entry of GET /notifications/threads.
type Notification struct {
	ID         ID                   `json:"id"`
	Content    string               `json:"content,omitempty"`
	Type       string               `json:"type,omitempty"`
	Unread     bool                 `json:"unread"`
	Mute       bool                 `json:"mute,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	UpdatedAt  *time.Time           `json:"updated_at,omitempty"`
	HTMLURL    string               `json:"html_url,omitempty"`
	Actor      *User                `json:"actor,omitempty"`
	Repository *Repo                `json:"repository,omitempty"`
	Subject    *NotificationSubject `json:"subject,omitempty"`
}

// Message is one private message from GET /notifications/messages.
type Message struct {
	ID        ID         `json:"id"`
	Sender    *User      `json:"sender,omitempty"`
	Unread    bool       `json:"unread"`
	Content   string     `json:"content,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	HTMLURL   string     `json:"html_url,omitempty"`
}

// Subscription is the notification subscription state of one thread.
type Subscription struct {
	ID            ID     `json:"id"`
	Reason        string `json:"reason,omitempty"`
	Subscribed    bool   `json:"subscribed"`
	Ignored       bool   `json:"ignored"`
	CreatedAt     string `json:"created_at,omitempty"`
	URL           string `json:"url,omitempty"`
	RepositoryURL string `json:"repository_url,omitempty"`
	ThreadURL     string `json:"thread_url,omitempty"`
}
