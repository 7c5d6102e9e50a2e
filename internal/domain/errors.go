package domain

import "errors"

// Error taxonomy for the catalog. Callers branch with errors.Is; wrapped
// messages carry the offending collection, field, or value.
var (
	// ErrMalformedRecord signals a raw record missing required fields or
	// carrying values of the wrong type. Fatal to a build.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDuplicateID signals two records of one collection sharing an id.
	// Fatal to a build.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDuplicateKey signals two entities deriving the same compound key.
	ErrDuplicateKey = errors.New("duplicate compound key")

	// ErrReferenceNotFound signals a foreign-key field pointing at an id or
	// key with no entity behind it.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrUnresolvedReference signals a compound-key reference that could not
	// be converted to an id.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrInvalidEnumValue signals a typed field outside its allowed values.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrHasDependents signals a delete refused because other entities still
	// reference the target.
	ErrHasDependents = errors.New("entity has dependents")

	// ErrUnknownEntityType signals a collection name outside the fixed set.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrReservedConfigKey signals an authored config key colliding with the
	// flattener's reserved pl_/ent_/sys_ prefixes.
	ErrReservedConfigKey = errors.New("reserved config key")

	// ErrUnknownSource signals a workspace source other than store or stash.
	ErrUnknownSource = errors.New("unknown workspace source")
)
