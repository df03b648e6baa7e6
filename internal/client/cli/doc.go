// Package cli provides the interactive saasadmin command-line client.
//
// It wires configuration, the access-token session, an HTTP or gRPC client
// and the admin Store/MutationController into a small REPL. Typical flow:
// read the token (from config or a hidden prompt), load the directory, then
// list, inspect and delete users. Deletions run in the background; their
// outcome is printed by the Notifier when they finish.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
