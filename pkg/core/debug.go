package core

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DebugMode controls the runtime's diagnostic instrumentation. When true,
// slot order violations carry a tag-by-tag diff of the two passes, and memos
// are shadow-recomputed under equal dependencies to surface stale closures.
var DebugMode = false

// SetDebugMode enables or disables debug mode for the runtime.
func SetDebugMode(debug bool) {
	DebugMode = debug
}

// passSignature hashes a slot tag sequence, giving a cheap fingerprint for
// comparing ledger shapes across passes in diagnostics.
func passSignature(tags []slotTag) uint64 {
	buf := make([]byte, len(tags))
	for i, t := range tags {
		buf[i] = byte(t)
	}
	return xxhash.Sum64(buf)
}

// debugDiff renders the baseline tag sequence against the sequence the
// failing pass produced up to the violation. got is the tag the pass asked
// for at the cursor, or zero when the pass ended early.
func (l *ledger) debugDiff(got slotTag) string {
	if !DebugMode {
		return ""
	}
	baseline := l.tags()
	cursor := l.cursor
	if cursor > len(baseline) {
		cursor = len(baseline)
	}
	current := make([]slotTag, 0, cursor+1)
	current = append(current, baseline[:cursor]...)
	if got != 0 {
		current = append(current, got)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "previous pass (sig %016x): %s", passSignature(baseline), formatTags(baseline))
	fmt.Fprintf(&sb, "; current pass (sig %016x): %s", passSignature(current), formatTags(current))
	return sb.String()
}

func formatTags(tags []slotTag) string {
	if len(tags) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = fmt.Sprintf("%d:%s", i, t)
	}
	return strings.Join(parts, " ")
}
