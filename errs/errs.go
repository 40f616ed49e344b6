// Package errs defines the sentinel errors returned by partab.
//
// Errors are returned wrapped with call-site context, so callers should match
// them with errors.Is rather than comparing directly:
//
//	if _, err := tbl.AddValue(gid, eid); errors.Is(err, errs.ErrEntityAssigned) {
//	    // sampler bug: entity was not removed before reassignment
//	}
package errs

import "errors"

// Contract violations raised by partition tables.
var (
	// ErrInvalidEntityCount is returned when a table is constructed with a non-positive population size.
	ErrInvalidEntityCount = errors.New("entity count must be positive")
	// ErrInvalidGroupCount is returned when a fixed table is constructed with a non-positive group count.
	ErrInvalidGroupCount = errors.New("group count must be positive")
	// ErrInvalidEntityID is returned when an entity id is outside [0, n).
	ErrInvalidEntityID = errors.New("invalid eid")
	// ErrInvalidGroupID is returned when a group id is not an active group.
	ErrInvalidGroupID = errors.New("invalid gid")
	// ErrGroupNotEmpty is returned when deleting a group that still has members.
	ErrGroupNotEmpty = errors.New("group not empty")
	// ErrEntityAssigned is returned when adding an entity that already belongs to a group.
	ErrEntityAssigned = errors.New("entity already assigned")
	// ErrEntityNotAssigned is returned when removing an entity that has no group.
	ErrEntityNotAssigned = errors.New("entity not assigned")
	// ErrInvalidConcentration is returned for non-positive or non-finite concentration parameters.
	ErrInvalidConcentration = errors.New("concentration parameter must be positive")
	// ErrSizeMismatch is returned when a vector argument does not match the table's dimensions.
	ErrSizeMismatch = errors.New("size mismatch")
)

// Reflection errors.
var (
	// ErrUnknownKey is returned by string-keyed hyperparameter and sufficient statistic lookups.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidValueType is returned when a value reference cannot be built for a type.
	ErrInvalidValueType = errors.New("invalid value type")
)

// Serialization errors.
var (
	// ErrInvalidState is the umbrella error for any rejected serialized state.
	ErrInvalidState = errors.New("invalid serialized state")
	// ErrInvalidHeaderSize is returned when the data is shorter than a state header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidMagicNumber is returned when the header magic does not identify a partab blob.
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	// ErrInvalidHeaderFlags is returned when reserved bits or enum fields in the header are invalid.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	// ErrUnexpectedKind is returned when a blob of one kind is decoded as another.
	ErrUnexpectedKind = errors.New("unexpected state kind")
	// ErrChecksumMismatch is returned when the body checksum does not match the header.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrTruncatedPayload is returned when a column runs past the end of the body.
	ErrTruncatedPayload = errors.New("truncated payload")
	// ErrTrailingBytes is returned when bytes remain after the last column.
	ErrTrailingBytes = errors.New("trailing bytes after payload")
	// ErrDuplicateGroupID is returned when a serialized state lists the same group twice.
	ErrDuplicateGroupID = errors.New("duplicate group id")
	// ErrGroupCodec is returned when a caller-supplied group payload codec fails.
	ErrGroupCodec = errors.New("group payload codec failed")
)
