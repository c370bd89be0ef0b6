package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager matches zerr.Error: its own message without the chain, plus metadata.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain outermost first. Wrappers without a message
// (zerr.With over a plain error) hand their metadata to the next level.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carry map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carry})
			break
		}

		meta := m.Metadata()
		if m.Message() == "" {
			if carry == nil {
				carry = map[string]any{}
			}
			maps.Copy(carry, meta)
			current = errors.Unwrap(current)
			continue
		}

		if carry != nil {
			maps.Copy(meta, carry)
			carry = nil
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}
	if err != nil && len(entries) == 0 {
		entries = append(entries, ErrorEntry{Message: err.Error(), Metadata: carry})
	}
	return entries
}

func mergedMetadata(entries []ErrorEntry) map[string]any {
	out := map[string]any{}
	for i := len(entries) - 1; i >= 0; i-- {
		maps.Copy(out, entries[i].Metadata)
	}
	return out
}

// formatErrorEntries renders the chain as "Error: ..." followed by a "Caused by:" list.
// Metadata is listed below each message, sorted by key.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, e := range entries {
		msgLines := strings.Split(e.Message, "\n")

		lead, indent := "    → ", "      "
		if i == 0 {
			lead, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, lead+msgLines[0])
		for _, l := range msgLines[1:] {
			lines = append(lines, indent+l)
		}
		for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, e.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
