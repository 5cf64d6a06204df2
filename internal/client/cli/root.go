package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/config"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/logging"
	"github.com/spf13/cobra"
)

// annotationNoApp marks commands that run without opening local storage.
const annotationNoApp = "giteekit/no-app"

type syncer interface{ Sync() error }

// state is shared by every command of one root.
type state struct {
	in     *bufio.Reader
	errOut io.Writer

	askPassphrase bool

	cfg *config.Config
	log logging.Logger
	app *App
}

func (s *state) setup(cmd *cobra.Command) error {
	if !needsApp(cmd) {
		return nil
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	s.cfg = cfg

	if cfg.LogFormat == config.LogFormatText {
		s.log = logging.NewTextLogger(s.errOut, cfg.Debug)
	} else {
		zl, err := logging.NewCLIZapLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		s.log = zl
	}

	var pass []byte
	switch {
	case cfg.VaultPassphrase != "":
		pass = []byte(cfg.VaultPassphrase)
	case s.askPassphrase:
		pass, err = GetSecret(s.in, "Vault passphrase", s.errOut)
		if err != nil {
			return err
		}
	}

	s.app, err = NewApp(cmd.Context(), cfg, s.log, pass)
	common.WipeByteArray(pass)
	return err
}

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationNoApp]; ok {
			return false
		}
		if c.Name() == "help" || c.Name() == cobra.ShellCompRequestCmd || c.Name() == "completion" {
			return false
		}
	}
	return true
}

func (s *state) teardown() error {
	var errs []error
	if s.app != nil {
		errs = append(errs, s.app.Close())
		s.app = nil
	}
	if sy, ok := s.log.(syncer); ok {
		// stderr sync fails with EINVAL on some terminals; nothing to do about it.
		_ = sy.Sync()
	}
	return errors.Join(errs...)
}

// NewRootCmd builds the giteekit command tree reading prompts from in and
// writing results to out. Call the returned cleanup after Execute.
func NewRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, func() error) {
	s := &state{in: bufio.NewReader(in), errOut: errOut}

	root := &cobra.Command{
		Use:           "giteekit",
		Short:         "Multi-account Gitee command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&s.askPassphrase, "ask-passphrase", false, "prompt for the vault passphrase")

	root.AddCommand(
		newVersionCmd(),
		newLoginCmd(s),
		newWhoamiCmd(s),
		newProfileCmd(s),
		newAccountsCmd(s),
		newVaultCmd(s),
		newFollowersCmd(s),
		newFollowingCmd(s),
		newReposCmd(s),
		newRepoCmd(s),
		newStarCmd(s, true),
		newStarCmd(s, false),
		newWatchCmd(s, true),
		newWatchCmd(s, false),
		newStarredCmd(s),
		newSearchCmd(s),
		newBranchesCmd(s),
		newReadmeCmd(s),
		newKeysCmd(s),
		newUserCmd(s),
		newOrgsCmd(s),
		newOrgCmd(s),
		newMembersCmd(s),
		newNotificationsCmd(s),
		newMessagesCmd(s),
		newEventsCmd(s),
	)

	return root, s.teardown
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root, cleanup := NewRootCmd(in, out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := cleanup(); err == nil {
		err = cerr
	}
	if err == nil {
		return 0
	}

	fmt.Fprintln(errOut, "Error:", err)
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(errOut, hint)
	}
	return 1
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, ErrWrongPassphrase):
		return "Check GITEEKIT_VAULT_PASSPHRASE. To start over, run 'giteekit vault reset' without a passphrase."
	case errors.Is(err, common.ErrNoCurrentProfile):
		return "Run 'giteekit login' to add an account."
	case errors.Is(err, common.ErrInvalidToken):
		return "Create a personal access token at https://gitee.com/profile/personal_access_tokens."
	case errors.Is(err, client.ErrUnauthorized):
		return "The token was rejected. Run 'giteekit login' again or check --access-token."
	case errors.Is(err, client.ErrUnavailable):
		return "Gitee could not be reached. Check the network or --api-url."
	}
	return ""
}

// Main is the entry point used by cmd/cli.
func Main(ctx context.Context) int {
	return Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
