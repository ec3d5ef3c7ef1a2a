// Package cmd implements the command-line interface for calsync.
//
// This package provides the following commands:
//   - auth: Manage the cached Microsoft Graph credential (login, logout, status)
//   - view: Fetch and display the calendar for a month
//   - create: Create a calendar event
//   - update: Replace the fields of an existing event
//   - cancel: Cancel an event as its organizer
//   - serve: Start the snapshot HTTP server
//   - version: Display version information
//
// The view command is the default command when no subcommand is specified.
package cmd
