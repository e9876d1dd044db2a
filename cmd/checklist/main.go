package main

import (
	"os"
	"strings"

	"atomic-checklist/internal/cli"
)

// isItemKey reports whether s looks like "<chapter>::<section>::<item>".
func isItemKey(s string) bool {
	s = strings.TrimSpace(s)
	return strings.Count(s, "::") == 2 && !strings.HasPrefix(s, "-")
}

// rewriteDirectItemLookupArgs turns `checklist <item-key>` into
// `checklist items show <item-key>`. Cobra treats the first positional token
// as a subcommand, so argv is rewritten before parsing. Persistent flags may
// come first, so the first positional is searched for.
func rewriteDirectItemLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--content":   true,
		"--state-dir": true,
		"--backend":   true,
		"--namespace": true,
		"--format":    true,
		"--log-file":  true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "items", "show")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isItemKey(argv[i+1]) {
				return insertAt(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		if isItemKey(a) {
			return insertAt(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
