// Package errs holds the failure taxonomy shared by the schema, index and
// table layers. Callers wrap these with fmt.Errorf("%w: ...") and test for
// them with errors.Is.
package errs

import "errors"

var (
	// ErrSchemaMismatch: union/minus inputs disagree on arity or on the
	// domain sequence, or two attribute lists have different lengths.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnknownAttribute: an attribute name does not exist in the schema.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrTypeMismatch: a value disagrees with its declared domain, or a
	// literal cannot be coerced to it.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidForeignKey: the right-hand attributes of an indexed join
	// are not exactly the right table's primary key.
	ErrInvalidForeignKey = errors.New("invalid foreign key")

	// ErrUnsupportedOperator: a condition uses an operator outside
	// ==, !=, <, <=, >, >=.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrMalformedCondition: a condition is not exactly three
	// whitespace-separated tokens.
	ErrMalformedCondition = errors.New("malformed condition")

	// ErrIndexUnavailable: a key-based path was used on a table built
	// without an index.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexOutOfRange: positional access beyond the tuple count.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTableNotFound: no table is registered under the given name.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableExists: a table with that name is already registered.
	ErrTableExists = errors.New("table already exists")
)
