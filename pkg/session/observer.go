package session

import "github.com/dmitrymomot/sessionkit/pkg/fingerprint"

// Observer receives lifecycle events, typically to export metrics.
// Methods are called synchronously and must not block.
type Observer interface {
	SessionStarted(resumed bool)
	SessionStopped()
	SessionRegenerated()
	FingerprintMismatch(strict bool)
	ClientAttributeMissing(attr fingerprint.Attribute, strict bool)
	StorageFailed(operation string)
}

type noopObserver struct{}

func (noopObserver) SessionStarted(bool)                                {}
func (noopObserver) SessionStopped()                                    {}
func (noopObserver) SessionRegenerated()                                {}
func (noopObserver) FingerprintMismatch(bool)                           {}
func (noopObserver) ClientAttributeMissing(fingerprint.Attribute, bool) {}
func (noopObserver) StorageFailed(string)                               {}
