package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/giteekit/internal/buildinfo"
	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/config"
	"github.com/dmitrijs2005/giteekit/internal/client/credentials"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/giteekit/internal/client/services"
	"github.com/dmitrijs2005/giteekit/internal/client/session"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/filex"
	"github.com/dmitrijs2005/giteekit/internal/logging"
	"github.com/go-redis/redis/v8"
)

var ErrWrongPassphrase = errors.New("wrong vault passphrase")

// App holds the wired client stack for one CLI invocation.
type App struct {
	cfg *config.Config
	log logging.Logger

	db  *sql.DB
	rdb *redis.Client

	meta     metadata.Repository
	vault    *secrets.SQLiteVault
	vaultSvc services.VaultService
	sessions *session.Manager
	api      *client.Client
	auth     services.AuthService
	lists    *services.Lists
}

// NewApp opens local storage and builds the services. A non-empty
// passphrase unlocks the token vault; it is wiped before NewApp returns.
// Without one, tokens are kept in the plaintext fallback store.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, passphrase []byte) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{cfg: cfg, log: log}

	if err := a.openStorage(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.vault = secrets.NewSQLiteVault(a.db, cfg.SecureNamespace)
	a.vaultSvc = services.NewVaultService(a.meta, a.vault)
	if len(passphrase) > 0 {
		key, err := a.vaultSvc.Unlock(ctx, passphrase)
		if err != nil {
			_ = a.Close()
			if errors.Is(err, client.ErrUnauthorized) {
				return nil, ErrWrongPassphrase
			}
			return nil, fmt.Errorf("unlock vault: %w", err)
		}
		common.WipeByteArray(key)
	}

	creds := credentials.NewStore(a.vault, a.meta, log)

	var err error
	a.sessions, err = session.NewManager(ctx, creds, session.NewKVStore(a.meta), log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	a.api, err = client.New(client.Config{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.RequestTimeout,
		OverrideToken: cfg.AccessToken,
		Tokens:        a.sessions,
		Logger:        log,
		RateLimit:     cfg.RateLimit,
		Burst:         cfg.RateBurst,
		UserAgent:     "giteekit/" + buildinfo.Version(),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.auth = services.NewAuthService(a.api, a.sessions, creds, log)
	a.lists = services.NewLists(a.api, cfg.PageSize)
	return a, nil
}

// openStorage opens the sqlite database, which always holds the encrypted
// tokens, and the metadata repository on the configured driver.
func (a *App) openStorage(ctx context.Context) error {
	dir, err := filex.EnsureDir(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	a.cfg.DataDir = dir

	path, err := a.cfg.DatabasePath()
	if err != nil {
		return err
	}
	a.db, err = client.InitDatabase(ctx, path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	switch a.cfg.Store.Driver {
	case config.DriverRedis:
		a.rdb, err = metadata.OpenRedis(ctx, a.cfg.Store.RedisURL)
		if err != nil {
			return err
		}
		a.meta = metadata.NewRedisRepository(a.rdb, a.cfg.Store.Namespace)
	default:
		a.meta = metadata.NewSQLiteRepository(a.db)
	}

	a.log.Debug(ctx, "storage ready", "db", path, "driver", a.cfg.Store.Driver)
	return nil
}

// Close locks the vault and releases storage handles.
func (a *App) Close() error {
	if a.vault != nil {
		a.vault.Lock()
	}
	var errs []error
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
