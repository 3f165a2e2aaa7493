package parse

import "github.com/google/shlex"

// Split breaks a command string into tokens using shell quoting rules.
func Split(s string) ([]string, error) {
	return shlex.Split(s)
}
