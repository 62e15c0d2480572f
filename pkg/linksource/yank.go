package linksource

import "strconv"

// YankState distinguishes the three ways a file or release can be marked.
type YankState int

const (
	// NotYanked means the file is available for selection.
	NotYanked YankState = iota
	// Yanked means the file was withdrawn without an explanation.
	Yanked
	// YankedWithReason means the file was withdrawn and a reason is attached.
	YankedWithReason
)

// Yank is the yank status of a single file or of a whole release.
//
// The zero value is not yanked.
type Yank struct {
	State  YankState
	reason string
}

// Unyanked returns the status of an available file.
func Unyanked() Yank { return Yank{State: NotYanked} }

// YankedNoReason returns the status of a file yanked without a reason.
func YankedNoReason() Yank { return Yank{State: Yanked} }

// YankedBecause returns the status of a file yanked for reason.
// An empty reason is the same as [YankedNoReason].
func YankedBecause(reason string) Yank {
	if reason == "" {
		return YankedNoReason()
	}
	return Yank{State: YankedWithReason, reason: reason}
}

// IsYanked reports whether the status is either yanked variant.
func (y Yank) IsYanked() bool { return y.State != NotYanked }

// Reason returns the yank reason, or "" if none was given.
func (y Yank) Reason() string { return y.reason }

// String renders the status the way index pages and lock files show it:
// "false", "true", or the reason text.
func (y Yank) String() string {
	if y.State == YankedWithReason {
		return y.reason
	}
	return strconv.FormatBool(y.IsYanked())
}
