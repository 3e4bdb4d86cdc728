package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyName              = errors.New("name is required")
	ErrInvalidStrategy        = errors.New("invalid strategy")
	ErrEmptySchema            = errors.New("schema reference is required")
	ErrEmptySource            = errors.New("source reference is required")
	ErrEmptyMapping           = errors.New("mapping reference is required")
	ErrEmptyTopic             = errors.New("topic is required")
	ErrInvalidTimeModifier    = errors.New("invalid before time modifier")
	ErrInvalidConcurrency     = errors.New("concurrency must not be negative")
	ErrConflictingTypeFilters = errors.New("caseTypes and typePrefix are mutually exclusive")
	ErrEmptyReference         = errors.New("reference is required")
	ErrEmptyLocation          = errors.New("source location is required")
	ErrInvalidLocation        = errors.New("source location must be an absolute http(s) URL")
	ErrInvalidTimeout         = errors.New("source timeout must not be negative")
	ErrEmptyMappingRules      = errors.New("mapping has no rules and is not passthrough")
	ErrEmptyIdentifierField   = errors.New("identifier field is required")
)
