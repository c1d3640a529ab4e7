// Package process supervises the child processes shown by the dashboard.
//
// The package implements a supervisor pattern with one long-lived Session
// per configured process. A session owns a command inbox and an output
// channel whose identities never change; Start and Stop only toggle whether
// a child is currently attached to them.
//
// # Sessions
//
// Each session runs a single goroutine that applies commands strictly in
// the order they arrive. That goroutine is the only code that touches the
// child handle and its process group, so no locking is needed around them:
//
//	Idle --Start--> Running --Stop / exit--> Idle
//
// A Start while Running and a Stop while Idle are ignored. When a child
// cannot be spawned the session writes an error line to its own output
// channel and stays Idle; one broken command never affects the others.
//
// # Output
//
// Two line readers per child (stdout and stderr) forward completed lines to
// the session's bounded output channel. A full channel blocks the readers,
// which in turn lets the child's pipe fill up; output is never dropped.
// Read errors are treated exactly like end of stream.
//
// # Termination
//
// On unix platforms each child leads its own process group and Stop sends
// SIGKILL to the whole group, so shell wrappers cannot leave orphaned
// grandchildren behind. Elsewhere only the direct child is killed and
// descendants may survive.
//
// # Supervisor
//
//	sup := process.SpawnAll(ctx, cfg.Processes, process.WithGracePeriod(cfg.Grace()))
//	defer sup.Teardown()
//
//	for _, h := range sup.Handles() {
//	    h.Send(process.CommandStart)
//	}
//
// Teardown is idempotent and bounded by the grace period.
package process
