package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// flag reads a flag registered in init. A lookup failure means the name or
// type does not match the registration, which is a programming error.
func flag[T any](get func(string) (T, error), name string) T {
	v, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("colorcheck: --%s: %v", name, err))
	}
	return v
}

func stringFlag(fs *pflag.FlagSet, name string) string { return flag(fs.GetString, name) }

func boolFlag(fs *pflag.FlagSet, name string) bool { return flag(fs.GetBool, name) }
