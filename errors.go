package commitment

import (
	"errors"
	"fmt"
)

// Kind classifies why a verification was rejected.
type Kind uint8

const (
	// KindUnknown is reported for errors that did not originate here.
	KindUnknown Kind = iota
	// KindShape covers length mismatches, empty proofs, roots, specs or values,
	// and proofs missing their leaf or inner operations.
	KindShape
	// KindType covers a layer holding a proof variant the operation cannot use.
	KindType
	// KindUsage means non-membership was requested with a membership proof.
	// The caller should re-query with the correct key or height.
	KindUsage
	// KindRange means a key path index was out of bounds.
	KindRange
	// KindCrypto means a layer did not verify or the chain did not reduce to
	// the trusted root.
	KindCrypto
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindType:
		return "type"
	case KindUsage:
		return "usage"
	case KindRange:
		return "range"
	case KindCrypto:
		return "crypto"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyProof         = errors.New("proof cannot be empty")
	ErrEmptyRoot          = errors.New("root cannot be empty")
	ErrEmptySpec          = errors.New("proof spec cannot be empty")
	ErrEmptyValue         = errors.New("empty value in membership proof")
	ErrEmptyPrefix        = errors.New("prefix cannot be empty")
	ErrLengthMismatch     = errors.New("proof, spec and path lengths do not match")
	ErrInvalidKeyEncoding = errors.New("key path element is not valid hex")
	ErrMalformedProof     = errors.New("proof is missing a leaf or inner operation")

	ErrUnexpectedProofType = errors.New("unexpected proof type")
	ErrNonExistenceInChain = errors.New("chained membership proof contains non-existence proof")

	ErrExistenceForNonMembership = errors.New("got existence proof in non-membership verification")

	ErrKeyIndexOutOfRange = errors.New("key path index out of range")

	ErrLayerVerification = errors.New("layer proof failed to verify")
	ErrRootMismatch      = errors.New("proof did not commit to expected root")
)

var sentinelKinds = map[error]Kind{
	ErrEmptyProof:                KindShape,
	ErrEmptyRoot:                 KindShape,
	ErrEmptySpec:                 KindShape,
	ErrEmptyValue:                KindShape,
	ErrEmptyPrefix:               KindShape,
	ErrLengthMismatch:            KindShape,
	ErrInvalidKeyEncoding:        KindShape,
	ErrMalformedProof:            KindShape,
	ErrUnexpectedProofType:       KindType,
	ErrNonExistenceInChain:       KindType,
	ErrExistenceForNonMembership: KindUsage,
	ErrKeyIndexOutOfRange:        KindRange,
	ErrLayerVerification:         KindCrypto,
	ErrRootMismatch:              KindCrypto,
}

// Error is the failure returned by every verification in this package.
// It wraps one of the sentinel errors above, so errors.Is can be used to
// match the exact reason and Kind to branch on its class.
type Error struct {
	Kind Kind
	// Layer is the proof index the failure was detected at, or -1.
	Layer int
	// Expected and Computed are only set for ErrRootMismatch.
	Expected []byte
	Computed []byte

	err    error
	detail string
}

func newError(sentinel error, layer int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   sentinelKinds[sentinel],
		Layer:  layer,
		err:    sentinel,
		detail: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.detail == "" {
		return e.err.Error()
	}
	return e.err.Error() + ": " + e.detail
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the Kind of err, looking through wrapped errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for sentinel, kind := range sentinelKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}
