// Package stcerr enumerates the failure taxonomy shared by the cache and
// the scheduler. Each kind is a sentinel error, not an exception type;
// callers discriminate with errors.Is.
package stcerr

import "errors"

var (
	// ErrNoSuchElement signals a cache miss or an unknown fingerprint. Never fatal.
	ErrNoSuchElement = errors.New("no such element")

	// ErrArgument signals an invariant violation in STRef/QR construction. Fatal to
	// the request, not the process.
	ErrArgument = errors.New("invalid argument")

	// ErrNotInitialized signals that a singleton-backed API was used before init.
	ErrNotInitialized = errors.New("not initialized")

	// ErrIllegalState signals a protocol state violation; the connection that
	// raised it moves to Faulty.
	ErrIllegalState = errors.New("illegal state")

	// ErrNodeFailed signals a worker became unreachable; handled by rebuild.
	ErrNodeFailed = errors.New("node failed")

	// ErrTimeout signals an exceeded deadline; treated as ErrNodeFailed upstream.
	ErrTimeout = errors.New("timeout")

	// ErrMustNotHappen signals an internal invariant broken by programmer error.
	// Fatal.
	ErrMustNotHappen = errors.New("must not happen")
)
