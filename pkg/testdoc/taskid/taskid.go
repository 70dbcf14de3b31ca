// Package taskid canonicalizes task identifiers read from the master sheet.
//
// Identifiers arrive as integers, floats, or strings ("2", "2.0", "2.1").
// Normalize is the single parsing boundary: every lookup joins on its output.
package taskid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer a float64 represents without loss.
const maxExactInt = 1 << 53

// Normalize returns the canonical string form of a task identifier.
// Whole numbers render without a fractional part ("2.0" -> "2"); any other
// numeric string is returned verbatim so "2.1" and "2.10" stay distinct.
// Values that do not parse as numbers are returned as their own string form.
func Normalize(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return normalizeString(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return normalizeFloat(float64(t), strconv.FormatFloat(float64(t), 'f', -1, 32))
	case float64:
		return normalizeFloat(t, strconv.FormatFloat(t, 'f', -1, 64))
	case fmt.Stringer:
		return normalizeString(t.String())
	default:
		return normalizeString(fmt.Sprint(v))
	}
}

func normalizeString(s string) string {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return normalizeFloat(f, s)
}

func normalizeFloat(f float64, raw string) string {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return raw
	}
	if math.Abs(f) < maxExactInt {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsSubtask reports whether a normalized identifier names a sub-task.
func IsSubtask(id string) bool {
	return strings.Contains(Normalize(id), ".")
}

// Family returns the integer part shared by a task and its sub-tasks.
func Family(id string) string {
	n := Normalize(id)
	if i := strings.IndexByte(n, '.'); i >= 0 {
		return n[:i]
	}
	return n
}

// SheetName returns the per-family detail sheet name ("Task ID 2").
func SheetName(id string) string {
	return "Task ID " + Family(id)
}

// HeaderLabel returns the column-A label of a detail block header.
func HeaderLabel(id string) string {
	if IsSubtask(id) {
		return "Subtask"
	}
	return "Task"
}

// HeaderText returns the column-B text of a detail block header. It uses the
// identifier as supplied, not its normalized form.
func HeaderText(rawID string) string {
	return "Task " + strings.TrimSpace(rawID)
}

// Less orders identifiers numerically when both parse, falling back to
// string order.
func Less(a, b string) bool {
	fa, errA := strconv.ParseFloat(Normalize(a), 64)
	fb, errB := strconv.ParseFloat(Normalize(b), 64)
	switch {
	case errA == nil && errB == nil && fa != fb:
		return fa < fb
	case errA == nil && errB != nil:
		return true
	case errA != nil && errB == nil:
		return false
	}
	return Normalize(a) < Normalize(b)
}
