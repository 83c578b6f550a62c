package fingerprint

import "errors"

var (
	// ErrMissingClientAttribute is matched by MissingAttributeError.
	ErrMissingClientAttribute = errors.New("fingerprint.missing_client_attribute")

	// ErrUnsupportedAlgorithm indicates an unknown digest name.
	ErrUnsupportedAlgorithm = errors.New("fingerprint.unsupported_algorithm")

	// ErrEmptySecret indicates the HMAC key is not configured.
	ErrEmptySecret = errors.New("fingerprint.empty_secret")
)

// Attribute names a client-supplied value a fingerprint can be bound to.
type Attribute string

const (
	AttributeAddress Attribute = "address"
	AttributeAgent   Attribute = "agent"
)

// MissingAttributeError reports a binding that is enabled while the client
// did not supply the corresponding value.
type MissingAttributeError struct {
	Attribute Attribute
}

func (e *MissingAttributeError) Error() string {
	return "fingerprint: client " + string(e.Attribute) + " is missing"
}

func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingClientAttribute
}
