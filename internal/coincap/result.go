package coincap

import "errors"

// errEmptyReason stands in when Err is called with a nil error.
var errEmptyReason = errors.New("coincap: unspecified failure")

// Result is the outcome of one asset fetch: either Ok with a RawAsset or Err with
// a reason. The zero value is an Err.
type Result struct {
	ok     bool
	asset  RawAsset
	reason error
}

// Ok wraps a successfully decoded asset.
func Ok(asset RawAsset) Result {
	return Result{ok: true, asset: asset}
}

// Err wraps a failure reason.
func Err(reason error) Result {
	if reason == nil {
		reason = errEmptyReason
	}
	return Result{reason: reason}
}

// IsOk reports whether the fetch succeeded.
func (r Result) IsOk() bool {
	return r.ok
}

// Asset returns the asset and true for an Ok result.
func (r Result) Asset() (RawAsset, bool) {
	return r.asset, r.ok
}

// Reason returns the failure reason, or nil for an Ok result.
func (r Result) Reason() error {
	if r.ok {
		return nil
	}
	if r.reason == nil {
		return errEmptyReason
	}
	return r.reason
}

// Match calls exactly one of onOk or onErr.
func Match[T any](r Result, onOk func(RawAsset) T, onErr func(error) T) T {
	if r.ok {
		return onOk(r.asset)
	}
	return onErr(r.Reason())
}
