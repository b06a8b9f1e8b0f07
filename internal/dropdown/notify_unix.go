//go:build !windows

package dropdown

import "golang.org/x/sys/unix"

// notifyParent asks the parent process (the shell) to redraw its line by
// sending it SIGWINCH.
func notifyParent() error {
	return unix.Kill(unix.Getppid(), unix.SIGWINCH)
}
