// Package stage attaches processing stage labels to errors and renders the
// resulting cause chains.
//
// Each processing phase wraps the error it received from below with an
// *Error carrying its Stage and a short message. The wrapped error keeps
// the standard library's Unwrap chain, so errors.Is works against the
// kind sentinels (ErrLoad, ErrReference, ...) regardless of how many
// stages the error crossed on its way up.
package stage

import (
	"errors"
	"fmt"
	"strings"
)

type Stage string

const (
	Load      Stage = "load"
	Resolve   Stage = "resolve"
	Validate  Stage = "validate"
	Serialize Stage = "serialize"
	Write     Stage = "write"
)

var (
	ErrLoad           = errors.New("load failure")
	ErrReference      = errors.New("reference failure")
	ErrDirectiveShape = errors.New("directive shape failure")
	ErrFormat         = errors.New("format failure")
	ErrValidation     = errors.New("validation failure")
	ErrWrite          = errors.New("write failure")
)

var kinds = []error{
	ErrLoad,
	ErrReference,
	ErrDirectiveShape,
	ErrFormat,
	ErrValidation,
	ErrWrite,
}

type Error struct {
	Stage Stage
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap labels err with stage st and a message. It returns nil when err is
// nil.
func Wrap(st Stage, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) != 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Stage: st, Msg: msg, Err: err}
}

// Kind returns the first kind sentinel err matches, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Link is one element of a cause chain.
type Link struct {
	Stage Stage
	Msg   string
}

func (l Link) String() string {
	if l.Stage == "" {
		return l.Msg
	}
	return "[" + string(l.Stage) + "] " + l.Msg
}

// Chain splits err into its links, from the outermost (most general)
// context to the innermost cause.
func Chain(err error) []Link {
	var res []Link
	for err != nil {
		if st, ok := err.(*Error); ok {
			res = append(res, Link{Stage: st.Stage, Msg: st.Msg})
			err = st.Err
			continue
		}
		next := errors.Unwrap(err)
		if next == nil {
			res = append(res, Link{Msg: err.Error()})
			break
		}
		msg := err.Error()
		own, found := strings.CutSuffix(msg, ": "+next.Error())
		if !found {
			// the wrapper does not end with its cause, keep it whole
			res = append(res, Link{Msg: msg})
			break
		}
		if own != "" {
			res = append(res, Link{Msg: own})
		}
		err = next
	}
	return res
}

// Format renders err for a terminal. The first link is the headline; with
// details the remaining links follow as a list, otherwise only the
// innermost cause is shown with a hint.
func Format(err error, details bool) string {
	links := Chain(err)
	if len(links) == 0 {
		return ""
	}
	buf := &strings.Builder{}
	buf.WriteString(links[0].String())
	rest := links[1:]
	if len(rest) == 0 {
		buf.WriteString("\n")
		return buf.String()
	}
	buf.WriteString(". Error details:\n")
	if !details {
		rest = rest[len(rest)-1:]
	}
	for _, l := range rest {
		buf.WriteString("- " + l.String() + "\n")
	}
	if !details {
		buf.WriteString("\nAdd -d for the full cause chain or -v for more output.\n")
	}
	return buf.String()
}
