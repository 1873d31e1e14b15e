package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idFormat describes the shape of one kind of entity ID accepted on the
// command line.
type idFormat struct {
	kind     string
	prefix   string
	pattern  *regexp.Regexp
	numbered string // suggestion for a bare number
	example  string
}

var (
	proposalIDs = idFormat{
		kind:     "proposal",
		prefix:   "PROP-",
		pattern:  regexp.MustCompile(`^PROP-\d{3,}$`),
		numbered: "PROP-%03d",
		example:  "PROP-007",
	}
	userIDs = idFormat{
		kind:     "user",
		prefix:   "USR-",
		pattern:  regexp.MustCompile(`^USR-[A-Za-z0-9][A-Za-z0-9_-]*$`),
		numbered: "USR-%d",
		example:  "USR-1a2b3c4d",
	}
)

// check reports a usable error for a malformed ID. An empty ID passes so
// that required-flag handling stays with the caller.
func (f idFormat) check(id string) error {
	if id == "" || f.pattern.MatchString(id) {
		return nil
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return fmt.Errorf("%s ID %q is missing its prefix, try %s", f.kind, id, fmt.Sprintf(f.numbered, n))
	}
	if n := len(f.prefix); len(id) > n && strings.EqualFold(id[:n], f.prefix) {
		fixed := f.prefix + id[n:]
		if f.pattern.MatchString(fixed) {
			return fmt.Errorf("%s ID %q has a lower-case prefix, use %s", f.kind, id, fixed)
		}
	}
	return fmt.Errorf("%s ID %q is malformed, expected something like %s", f.kind, id, f.example)
}
