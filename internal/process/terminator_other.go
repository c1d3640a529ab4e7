//go:build !unix

package process

// DefaultTerminator returns the single-process terminator. Process groups
// are not available on this platform, so descendants of a stopped child
// may be leaked.
func DefaultTerminator() Terminator {
	return SingleTerminator()
}
