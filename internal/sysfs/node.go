// Package sysfs reads single virtual filesystem nodes. Every failure mode
// collapses to an absence value: a missing node must never abort the report
// built on top of it.
package sysfs

import (
	"os"
	"strconv"
	"strings"
)

// ReadUint reads a text node and parses its trimmed content as an unsigned
// base-10 integer. The second return is false when the node is missing,
// unreadable, or not a valid non-negative integer.
func ReadUint(path string) (uint64, bool) {
	raw, ok := ReadString(path)
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ReadString reads a text node and returns its whitespace-trimmed content.
func ReadString(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(b)), true
}
