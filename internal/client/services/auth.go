// Package services contains application services for the giteekit client.
// This file defines the account service: token login, profile refresh,
// account switching, logout and a per-account unread overview.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/logging"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSwitchRefused   = errors.New("account unknown or has no stored token")
	ErrPersistFailed   = errors.New("session state could not be saved")
	ErrAccountMismatch = errors.New("token belongs to a different account")
)

// overviewConcurrency bounds parallel requests made by Overview.
const overviewConcurrency = 4

// Sessions is the session state the account service works on.
// *session.Manager implements it.
type Sessions interface {
	AddOrUpdateProfile(ctx context.Context, p models.Profile) bool
	CurrentProfile() (models.Profile, bool)
	CurrentID() (int64, bool)
	Profiles() []models.Profile
	SwitchCurrent(ctx context.Context, id int64) bool
	UpdateCurrentProfile(ctx context.Context, p models.Profile) bool
	DeleteCurrent(ctx context.Context) bool
	DeleteAll(ctx context.Context) bool
	CurrentToken(ctx context.Context) (string, bool)
	TokenFor(ctx context.Context, id int64) (string, bool)
}

// TokenSaver stores an account's token and reports whether secure storage
// accepted it.
type TokenSaver interface {
	Save(ctx context.Context, ownerID int64, token string) bool
}

// AccountStatus is one row of Overview.
type AccountStatus struct {
	Profile  models.Profile
	Current  bool
	HasToken bool
	Unread   *models.NotificationCount
	Err      error
}

// AuthService manages the accounts known to the client.
//
// Contract:
//   - Login: validate a token against GET /user, store it, remember the
//     profile and make it current. secure reports whether the token went to
//     secure storage.
//   - RefreshCurrent: re-fetch the current account's profile.
//   - Switch, Logout, LogoutAll: session housekeeping.
//   - Overview: unread counters for every known account.
type AuthService interface {
	Login(ctx context.Context, token string) (p models.Profile, secure bool, err error)
	RefreshCurrent(ctx context.Context) (models.Profile, error)
	Switch(ctx context.Context, id int64) error
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	Overview(ctx context.Context) ([]AccountStatus, error)
}

type authService struct {
	api      client.API
	sessions Sessions
	tokens   TokenSaver
	log      logging.Logger
}

func NewAuthService(api client.API, sessions Sessions, tokens TokenSaver, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{api: api, sessions: sessions, tokens: tokens, log: log.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, token string) (models.Profile, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Profile{}, false, common.ErrInvalidToken
	}

	p, err := a.api.AuthenticatedUser(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return models.Profile{}, false, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
		}
		return models.Profile{}, false, fmt.Errorf("fetch profile: %w", err)
	}

	if p.ID == 0 {
		return models.Profile{}, false, &client.DecodeError{Path: "/user", Err: errors.New("profile has no id")}
	}

	secure := a.tokens.Save(ctx, p.ID, token)
	if !secure {
		a.log.Warn(ctx, "token stored without encryption", "login", p.Login)
	}

	// A false return below may only mean the state was not saved; memory is
	// already updated, so the login goes on and the current id decides.
	saved := a.sessions.AddOrUpdateProfile(ctx, p)
	saved = a.sessions.SwitchCurrent(ctx, p.ID) && saved
	if cur, ok := a.sessions.CurrentID(); !ok || cur != p.ID {
		return p, secure, ErrSwitchRefused
	}
	if !saved {
		a.log.Warn(ctx, "session state may not survive restart", "login", p.Login)
	}

	a.log.Info(ctx, "logged in", "login", p.Login, "id", p.ID)
	return p, secure, nil
}

func (a *authService) RefreshCurrent(ctx context.Context) (models.Profile, error) {
	cur, ok := a.sessions.CurrentProfile()
	if !ok {
		return models.Profile{}, common.ErrNoCurrentProfile
	}
	token, ok := a.sessions.CurrentToken(ctx)
	if !ok {
		return models.Profile{}, fmt.Errorf("%w: no token for %s", common.ErrNoCurrentProfile, cur.Login)
	}

	p, err := a.api.AuthenticatedUser(ctx, token)
	if err != nil {
		return models.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if p.ID != cur.ID {
		return models.Profile{}, ErrAccountMismatch
	}
	if !a.sessions.UpdateCurrentProfile(ctx, p) {
		return p, ErrPersistFailed
	}
	return p, nil
}

func (a *authService) Switch(ctx context.Context, id int64) error {
	if !a.sessions.SwitchCurrent(ctx, id) {
		return ErrSwitchRefused
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if _, ok := a.sessions.CurrentID(); !ok {
		return common.ErrNoCurrentProfile
	}
	if !a.sessions.DeleteCurrent(ctx) {
		return ErrPersistFailed
	}
	return nil
}

func (a *authService) LogoutAll(ctx context.Context) error {
	if !a.sessions.DeleteAll(ctx) {
		return ErrPersistFailed
	}
	return nil
}

// Overview fetches unread counters for every known account in parallel,
// each request carrying that account's own token. Per-account failures are
// reported in AccountStatus.Err; the call fails only if ctx is cancelled.
func (a *authService) Overview(ctx context.Context) ([]AccountStatus, error) {
	profiles := a.sessions.Profiles()
	currentID, hasCurrent := a.sessions.CurrentID()

	out := make([]AccountStatus, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)

	for i, p := range profiles {
		out[i] = AccountStatus{Profile: p, Current: hasCurrent && p.ID == currentID}
		token, ok := a.sessions.TokenFor(ctx, p.ID)
		if !ok {
			continue
		}
		out[i].HasToken = true

		g.Go(func() error {
			n, err := a.api.NotificationCount(gctx, true, token)
			if err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Unread = &n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
