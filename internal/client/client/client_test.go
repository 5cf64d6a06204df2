package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	calls atomic.Int32
}

func (s *staticTokens) CurrentToken(context.Context) (string, bool) {
	s.calls.Add(1)
	return s.token, s.token != ""
}

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, HTTPClient: srv.Client()}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Nil(t, c.limiter)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestDo_TokenPriority(t *testing.T) {
	var got string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}

	t.Run("session token", func(t *testing.T) {
		src := &staticTokens{token: "session-tok"}
		c := newTestClient(t, h, func(c *Config) { c.Tokens = src })

		_, err := c.Do(context.Background(), Request{Path: "/user"})
		require.NoError(t, err)
		assert.Equal(t, "token session-tok", got)
	})

	t.Run("override wins", func(t *testing.T) {
		src := &staticTokens{token: "session-tok"}
		c := newTestClient(t, h, func(c *Config) { c.Tokens = src })
		c.SetOverrideToken("override-tok")

		_, err := c.Do(context.Background(), Request{Path: "/user"})
		require.NoError(t, err)
		assert.Equal(t, "token override-tok", got)
		assert.Equal(t, int32(0), src.calls.Load(), "token source must not be consulted")

		c.SetOverrideToken("")
		_, err = c.Do(context.Background(), Request{Path: "/user"})
		require.NoError(t, err)
		assert.Equal(t, "token session-tok", got)
	})

	t.Run("explicit header skips resolution", func(t *testing.T) {
		src := &staticTokens{token: "session-tok"}
		c := newTestClient(t, h, func(c *Config) { c.Tokens = src; c.OverrideToken = "o" })

		hdr := http.Header{}
		hdr.Set("Authorization", "token explicit")
		_, err := c.Do(context.Background(), Request{Path: "/user", Header: hdr})
		require.NoError(t, err)
		assert.Equal(t, "token explicit", got)
		assert.Equal(t, int32(0), src.calls.Load())
	})

	t.Run("no token goes out unauthenticated", func(t *testing.T) {
		c := newTestClient(t, h, func(c *Config) { c.Tokens = &staticTokens{} })

		_, err := c.Do(context.Background(), Request{Path: "/user"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDo_SetsRequestHeadersAndBody(t *testing.T) {
	var (
		method, ct, reqID string
		body              map[string]string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		ct = r.Header.Get("Content-Type")
		reqID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPatch,
		Path:   "/user",
		Body:   map[string]string{"bio": "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Contains(t, ct, "application/json")
	assert.Len(t, reqID, 36)
	assert.Equal(t, map[string]string{"bio": "hi"}, body)
}

func TestDo_ErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
			})

			_, err := c.Do(context.Background(), Request{Path: "/x"})
			require.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestDo_BadRequestMatchesNoSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Do(context.Background(), Request{Path: "/x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Request", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestDo_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Path: "/user"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(c *Config) { c.Timeout = 50 * time.Millisecond })

	_, err := c.Do(context.Background(), Request{Path: "/slow"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_RateLimitHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {},
		func(c *Config) { c.RateLimit = 0.001; c.Burst = 1 })

	_, err := c.Do(context.Background(), Request{Path: "/a"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, Request{Path: "/b"})
	require.Error(t, err)
}

func TestDo_BodyLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `["aaaaaaaaaaaaaaaaaaaa"]`)
	}, func(c *Config) { c.MaxBodyBytes = 8 })

	_, err := c.Do(context.Background(), Request{Path: "/big"})
	require.Error(t, err)
}

func TestAuthenticatedUser_SendsExplicitToken(t *testing.T) {
	src := &staticTokens{token: "current"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "token fresh", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":42,"login":"octo","name":"Octo"}`)
	}, func(c *Config) { c.Tokens = src })

	p, err := c.AuthenticatedUser(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "Octo", p.DisplayName())
	assert.Equal(t, int32(0), src.calls.Load())
}

func TestAuthenticatedUser_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"not-a-number"`)
	})

	_, err := c.AuthenticatedUser(context.Background(), "t")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "/user", de.Path)
}

func TestPathEscaping(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Repo(context.Background(), "own er", "re/po")
	require.NoError(t, err)
	assert.Equal(t, "/repos/own%20er/re%2Fpo", got)
}

func TestIsStarred(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/starred/a/yes":
			w.WriteHeader(http.StatusNoContent)
		case "/user/starred/a/no":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	ok, err := c.IsStarred(ctx, "a", "yes")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsStarred(ctx, "a", "no")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.IsStarred(ctx, "a", "boom")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestStarUnstar(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.StarRepo(ctx, "o", "r"))
	require.NoError(t, c.UnstarRepo(ctx, "o", "r"))
	assert.Equal(t, []string{"PUT /user/starred/o/r", "DELETE /user/starred/o/r"}, calls)
}

func TestNotificationCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("unread"))
		assert.Equal(t, "token acct", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"total_count":3,"notification_count":2,"message_count":1}`)
	})

	n, err := c.NotificationCount(context.Background(), true, "acct")
	require.NoError(t, err)
	assert.Equal(t, models.NotificationCount{TotalCount: 3, NotificationCount: 2, MessageCount: 1}, n)
}

func TestMarkRead(t *testing.T) {
	var calls []string
	var lastBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		lastBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.MarkNotificationRead(ctx, 17))
	require.NoError(t, c.MarkAllNotificationsRead(ctx, time.Time{}))
	assert.Empty(t, lastBody)
	require.NoError(t, c.MarkAllMessagesRead(ctx, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.JSONEq(t, `{"last_read_at":"2025-01-02T03:04:05Z"}`, lastBody)

	assert.Equal(t, []string{
		"PATCH /notifications/threads/17",
		"PUT /notifications/threads",
		"PUT /notifications/messages",
	}, calls)
}

func TestProfileEndpoints(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cl := call{method: r.Method, path: r.URL.EscapedPath()}
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&cl.body))
		}
		calls = append(calls, cl)
		switch r.URL.Path {
		case "/orgs/gitee-team":
			_, _ = io.WriteString(w, `{"id":9,"login":"gitee-team","name":"Team","follow_count":3}`)
		default:
			_, _ = io.WriteString(w, `{"id":1,"login":"alice","bio":"new bio"}`)
		}
	})
	ctx := context.Background()

	bio := "new bio"
	p, err := c.UpdateAuthenticatedUser(ctx, models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "new bio", p.Bio)

	p, err = c.User(ctx, "ali ce")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Login)

	o, err := c.Org(ctx, "gitee-team")
	require.NoError(t, err)
	assert.Equal(t, models.Org{ID: 9, Login: "gitee-team", Name: "Team", FollowCount: 3}, o)

	require.Len(t, calls, 3)
	assert.Equal(t, call{method: http.MethodPatch, path: "/user", body: map[string]any{"bio": "new bio"}}, calls[0])
	assert.Equal(t, call{method: http.MethodGet, path: "/users/ali%20ce"}, calls[1])
	assert.Equal(t, call{method: http.MethodGet, path: "/orgs/gitee-team"}, calls[2])
}

func TestWatchUnwatch(t *testing.T) {
	var calls []string
	var watchBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			b, _ := io.ReadAll(r.Body)
			watchBody = string(b)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.WatchRepo(ctx, "o", "r"))
	require.NoError(t, c.UnwatchRepo(ctx, "o", "r"))
	assert.Equal(t, []string{"PUT /repos/o/r/subscription", "DELETE /repos/o/r/subscription"}, calls)
	assert.JSONEq(t, `{"watch_type":"watching"}`, watchBody)
}

func TestReadme(t *testing.T) {
	var ref string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/readme", r.URL.Path)
		ref = r.URL.Query().Get("ref")
		if r.URL.Query().Get("ref") == "broken" {
			_, _ = io.WriteString(w, `{"name":"README.md","encoding":"base64","content":"!!not base64!!"}`)
			return
		}
		// "# Hello\nworld\n" wrapped the way the API wraps long content
		_, _ = io.WriteString(w, `{"name":"README.md","path":"README.md","encoding":"base64","content":"IyBIZWxs\nbwp3b3JsZAo="}`)
	})
	ctx := context.Background()

	rd, err := c.Readme(ctx, "o", "r", "")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\nworld\n", rd.Content)
	assert.Equal(t, "README.md", rd.Name)
	assert.Empty(t, ref)

	_, err = c.Readme(ctx, "o", "r", "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev", ref)

	_, err = c.Readme(ctx, "o", "r", "broken")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestCreateBranch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/o/r/branches", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"refs": "main", "branch_name": "feature/x"}, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"name":"feature/x","protected":false,"commit":{"sha":"abc"}}`)
	})

	b, err := c.CreateBranch(context.Background(), "o", "r", "main", "feature/x")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", b.Name)
}

func TestNotificationThreadAndSubscription(t *testing.T) {
	var calls []string
	var subBody map[string]bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"id":"42","unread":true,"subject":{"title":"PR merged","type":"PullRequest"}}`)
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&subBody))
			_, _ = io.WriteString(w, `{"id":42,"subscribed":true,"ignored":true,"reason":"manual"}`)
		}
	})
	ctx := context.Background()

	n, err := c.NotificationThread(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.ID(42), n.ID)
	require.NotNil(t, n.Subject)
	assert.Equal(t, "PR merged", n.Subject.Title)

	sub, err := c.SetSubscription(ctx, 42, true, true)
	require.NoError(t, err)
	assert.True(t, sub.Subscribed)
	assert.True(t, sub.Ignored)
	assert.Equal(t, map[string]bool{"subscribed": true, "ignored": true}, subBody)

	assert.Equal(t, []string{
		"GET /notifications/threads/42",
		"PUT /notifications/threads/subscriptions/42",
	}, calls)
}
