package service

import (
	"errors"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
)

type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindAlreadyExists
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Failure is a domain-level rejection.  Reason is the stable,
// machine-readable code returned to clients.
type Failure struct {
	Kind   Kind
	Reason string
}

func (f *Failure) Error() string { return f.Reason }

// Is lets callers match a Failure against the storage sentinels as well as
// against another Failure with the same reason.
func (f *Failure) Is(target error) bool {
	switch target {
	case store.ErrAlreadyExists:
		return f.Kind == KindAlreadyExists
	case store.ErrNotFound:
		return f.Kind == KindNotFound
	}
	var t *Failure
	if errors.As(target, &t) {
		return t.Reason == f.Reason
	}
	return false
}

var (
	ErrRegistrarExists   = &Failure{Kind: KindAlreadyExists, Reason: "registrar-already-exists"}
	ErrBuildingExists    = &Failure{Kind: KindAlreadyExists, Reason: "building-already-exists"}
	ErrDesignationExists = &Failure{Kind: KindAlreadyExists, Reason: "designation-already-exists"}
	ErrFeatureExists     = &Failure{Kind: KindAlreadyExists, Reason: "feature-already-exists"}

	ErrBuildingNotFound  = &Failure{Kind: KindNotFound, Reason: "building-not-found"}
	ErrOwnershipNotFound = &Failure{Kind: KindNotFound, Reason: "ownership-not-found"}

	ErrMissingCaller = &Failure{Kind: KindUnauthorized, Reason: "missing-caller"}
	ErrNotRegistrar  = &Failure{Kind: KindUnauthorized, Reason: "not-registrar"}

	ErrInvalidArgument = &Failure{Kind: KindInvalidArgument, Reason: "invalid-argument"}
	ErrInvalidHash     = &Failure{Kind: KindInvalidArgument, Reason: "invalid-hash"}
)

// AsFailure extracts the Failure carried by err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// translate maps storage sentinels onto the Failure that names the missing
// or conflicting record for this operation.
func translate(err error, notFound, exists *Failure) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, store.ErrNotFound):
		return notFound
	case exists != nil && errors.Is(err, store.ErrAlreadyExists):
		return exists
	}
	return err
}
