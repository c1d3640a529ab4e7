// Package config loads and validates the runner configuration file.
//
// A configuration declares the processes the dashboard supervises, in the
// order their panes are stacked on screen:
//
//	processes:
//	  - name: api
//	    command: go
//	    args: ["run", "./cmd/api"]
//	    cwd: ./services/api
//	    color: "#5fafff"
//	  - name: web
//	    command: npm
//	    args: ["run", "dev"]
//	    cwd: ./web
//	max_lines: 10000
//	grace_period: 200ms
//
// YAML is the default format. Files ending in .toml are decoded as TOML with
// the same field names.
//
// # Validation
//
// Between MinProcesses and MaxProcesses entries are required. Names must be
// non-empty and unique, and every entry needs a command. Validation happens
// before any process is spawned, so a bad file never reaches the dashboard.
//
// # Watching
//
// Watch reports edits to the configuration file while the dashboard runs.
// Sessions are fixed for the lifetime of a run, so the notice only tells the
// operator that a restart is needed.
package config
