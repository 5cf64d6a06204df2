// Package cli implements the giteekit command-line client.
//
// NewRootCmd builds a cobra command tree over an App, which wires
// configuration, local storage (sqlite or redis), the token vault, the
// multi-account session manager and the Gitee API client. Execute runs the
// tree and releases the App afterwards.
//
// Commands:
//   - login, whoami, profile, accounts (list, switch, logout, logout-all,
//     refresh, status)
//   - followers, following, repos, orgs, members, events, notifications,
//     messages: paged lists with --limit and --all
//   - user, org, repo, star, unstar: single resources
//   - vault (status, reset), version
package cli
