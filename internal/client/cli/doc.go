// Package cli provides the interactive CloudSafe command-line client.
//
// It wires configuration, the local session store, the resource gateway and
// an interactive REPL. Every protected command re-checks the stored session
// before touching the network; a missing or partial session sends the user
// back to the login prompt.
//
// Key features:
//   - Register / Login / Logout
//   - List, upload, download and delete files
//   - View and update the account profile
//   - Storage analytics and the activity log
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
