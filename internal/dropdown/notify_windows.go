//go:build windows

package dropdown

func notifyParent() error {
	return nil
}
