package version

import "fmt"

// Bumped on every tagged release of the custodc toolchain.
const (
	Major = 0
	Minor = 2
	Patch = 0
)

func String() string {
	return fmt.Sprintf("custodc %d.%d.%d", Major, Minor, Patch)
}
