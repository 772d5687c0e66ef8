package loader

// SyntaxError reports a configuration file that is not well-formed YAML
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return e.Err.Error() }
func (e *SyntaxError) Unwrap() error { return e.Err }

// Kind returns the user-facing error class name
func (e *SyntaxError) Kind() string { return "SyntaxError" }

// SchemaError reports a well-formed file that fails schema validation
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return e.Err.Error() }
func (e *SchemaError) Unwrap() error { return e.Err }

// Kind returns the user-facing error class name
func (e *SchemaError) Kind() string { return "SchemaValidationError" }
