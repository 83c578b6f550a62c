// Package session manages server-side sessions bound to the client that
// created them.
//
// A Manager holds process-wide configuration: the Store that persists
// payloads, the Transport that carries the session id to the client, the
// fingerprint secret and the strict/lenient policy. For every request it
// hands out a Session handle. Handles start Closed; Start loads the session
// referenced by the client (or creates a new one) and moves it to Active.
//
//	Closed ──start──► Active ──stop──► Closed
//	                    │  ▲
//	                    │  └─regenerate
//	                    └─invalidate─► Invalid ──stop──► Closed
//
// # Fingerprints
//
// With fingerprinting enabled, the first Start binds an HMAC of the client
// address and user agent to the session. Every later Start recomputes it and
// compares in constant time. A mismatch always destroys the session. In
// strict mode Start then returns ErrInvalidFingerprint; in lenient mode it
// returns false and the caller may start a fresh session. A bound attribute
// the client did not supply yields ErrMissingClientAttribute in strict mode
// and a placeholder value in lenient mode.
//
// # Storage
//
// Stores deal in opaque bytes: MemoryStore, NullStore and the redisstore,
// pgstore, mongostore, filestore and s3store subpackages. EncryptedStore
// wraps any of them with authenticated encryption.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	manager, err := session.New(
//	    session.WithConfig(cfg),
//	    session.WithCookieManager(cookieMgr),
//	    session.WithStore(redisstore.New(client)),
//	)
//	if err != nil {
//	    return err
//	}
//	defer manager.Close()
//
//	r.Use(manager.Middleware)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    _ = sess.Set("cart", 3)
//	    msg := sess.Flash("notice", "")
//	}
//
// Call Regenerate after a privilege change such as login, and Rebind if the
// client attributes are expected to have changed.
//
// Concurrent requests for the same session id are not coordinated: each
// request saves its own copy and the store decides which write wins.
package session
