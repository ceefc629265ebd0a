package imagepkg

import (
	"errors"
	"fmt"
)

// Kind classifies a render failure so callers can map it to a status.
type Kind string

const (
	KindDecode         Kind = "decode"
	KindFetch          Kind = "fetch"
	KindAssetMissing   Kind = "asset_missing"
	KindInvalidRequest Kind = "invalid_request"
	KindInvalidZone    Kind = "invalid_zone"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrDecode         = &Error{Kind: KindDecode}
	ErrFetch          = &Error{Kind: KindFetch}
	ErrAssetMissing   = &Error{Kind: KindAssetMissing}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrInvalidZone    = &Error{Kind: KindInvalidZone}
)

// Error is the structured failure returned by every stage of the pipeline.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// DecodeError reports unreadable or unsupported image bytes.
func DecodeError(err error, format string, args ...interface{}) error {
	return newError(KindDecode, err, format, args...)
}

// FetchError reports a remote image that could not be retrieved.
func FetchError(err error, format string, args ...interface{}) error {
	return newError(KindFetch, err, format, args...)
}

// AssetMissingError reports an absent template, logo or font file.
func AssetMissingError(err error, format string, args ...interface{}) error {
	return newError(KindAssetMissing, err, format, args...)
}

// InvalidRequestError reports missing or malformed request fields.
func InvalidRequestError(format string, args ...interface{}) error {
	return newError(KindInvalidRequest, nil, format, args...)
}

// InvalidZoneError reports a misconfigured render region.
func InvalidZoneError(format string, args ...interface{}) error {
	return newError(KindInvalidZone, nil, format, args...)
}

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
