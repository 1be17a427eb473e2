// Package flagx lets several components share one command line: each picks
// out the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"strings"
)

// partition walks args and splits them into arguments belonging to one of
// the named flags (including a separate value, if any) and everything else.
//
// Recognized forms are "-f value" and "-f=value". A token following a flag is
// taken as its value only when it does not itself start with '-'.
func partition(args []string, names []string) (owned, rest []string) {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	owned = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := known[name]; ok {
				owned = append(owned, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, ok := known[arg]; ok {
			owned = append(owned, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				owned = append(owned, args[i+1])
				i++
			}
			continue
		}

		rest = append(rest, arg)
	}

	return owned, rest
}

// FilterArgs returns only the allowed flags (and their values) from args,
// preserving order. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	owned, _ := partition(args, allowedFlags)
	return owned
}

// StripArgs is the complement of FilterArgs: it drops the named flags and
// their values and returns whatever is left, in order.
func StripArgs(args []string, flags []string) []string {
	_, rest := partition(args, flags)
	return rest
}

// ConfigFileFlags lists the flags naming a JSON config file.
var ConfigFileFlags = []string{"-c", "-config"}

// JsonConfigFlags extracts the config file path given with -c or -config.
// It returns an empty string when neither is present.
func JsonConfigFlags(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return config
}
