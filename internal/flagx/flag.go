// Package flagx lets several components parse their own flags out of the
// same argument list without tripping over each other.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments that belong to allowedFlags, together with
// their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// A separate value is only taken when the next argument does not start with
// '-'. Boolean flags are therefore safe to list as well.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Spellings expands flag names into the single and double dash forms,
// e.g. "data-dir" becomes "-data-dir" and "--data-dir".
func Spellings(names ...string) []string {
	out := make([]string, 0, 2*len(names))
	for _, n := range names {
		n = strings.TrimLeft(n, "-")
		out = append(out, "-"+n, "--"+n)
	}
	return out
}

// JSONConfigPath extracts the config file path given via -c, -config or
// --config. Other arguments are ignored. An empty string means no file.
func JSONConfigPath(args []string) string {
	var config string

	filtered := FilterArgs(args, append(Spellings("config"), "-c"))

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(filtered)

	return config
}

