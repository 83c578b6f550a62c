// Package clientip resolves the originating client's IP address from an
// *http.Request, optionally trusting reverse proxy headers.
//
// The default resolver examines, in order:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid address of the chain)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Services exposed without a proxy should build their own resolver with
// WithoutProxyHeaders, since forwarding headers are client controlled.
//
// # Usage
//
//	ip, ok := clientip.New(clientip.WithHeaders("X-Real-IP")).Resolve(r)
//	if !ok {
//	    // no usable address
//	}
//
// GetIP is a shortcut for the default resolver and returns an empty string
// when nothing valid is found.
package clientip
