// custodc is the compiler driver: permission checking, interpretation,
// IR inspection and native builds.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
