// Package app wires the runner together: it starts the process supervisor
// for a validated configuration, hands the session handles to the
// dashboard, and guarantees that every child is torn down and the terminal
// restored however the dashboard exits.
package app
