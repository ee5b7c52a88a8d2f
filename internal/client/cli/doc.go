// Package cli provides the interactive TalentBridge command-line client.
//
// It wires configuration and the HTTP API client into a small REPL. A
// background watcher polls /health and shows online or offline status in
// the prompt.
//
// Commands:
//   - register, verify, resend
//   - login, whoami, logout
//   - forgot, reset
//   - help, exit | quit
//
// Passwords are read from the terminal without echo and wiped after use.
package cli
