// Package cli provides the interactive company admin command-line client.
//
// Screens of the web dashboard map to REPL commands. Every command that
// belongs to a protected screen is run behind the route guard: an anonymous
// session is sent to the login screen, a role outside the screen's set is
// sent to the dashboard, and the command runs only when allowed.
//
// Key features:
//   - Register / Login / Logout / Status
//   - Company listing (all or own), details, create, edit, delete, logo upload
//   - Admin management and dashboard statistics
//   - Action history and profile self-service
//
// Backend failures are printed by the gateway notifier as "[error] ..."; the
// REPL prints only what the gateway did not already report.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
