// Package fingerprint binds a session to client-observable attributes.
//
// A fingerprint is the hex encoded HMAC of "<address>|<agent>", keyed by a
// server secret. Disabled bindings contribute the literal "null", so turning
// a binding on or off changes every fingerprint.
//
//	cfg := fingerprint.Config{BindAddress: true, BindAgent: true, Secret: secret}
//	fp, err := fingerprint.Generate(cfg, fingerprint.FromRequest(r))
//	if errors.Is(err, fingerprint.ErrMissingClientAttribute) {
//	    // the request did not carry an address or user agent
//	}
//	if !fingerprint.Equal(fp, stored) {
//	    // possible hijack
//	}
//
// Supported digests are listed by Algorithms; sha512 is the default.
package fingerprint
