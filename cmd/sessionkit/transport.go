package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

var (
	errUnknownTransport = errors.New("sessionkit: unknown session transport")
	errUnknownIDFormat  = errors.New("sessionkit: unknown session id format")
)

// buildTransport assembles the transports named in cfg.Transports.
func buildTransport(cfg wireConfig, sess session.Config, cookies *cookie.Manager) (session.Transport, error) {
	var transports []session.Transport
	seen := make(map[string]bool)
	for _, name := range cfg.Transports {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "cookie":
			transports = append(transports, session.NewCookieTransport(cookies, sess.CookieName, sess.SecureCookies))
		case "header":
			transports = append(transports, session.NewHeaderTransport(cfg.HeaderName))
		default:
			return nil, fmt.Errorf("%w: %q", errUnknownTransport, name)
		}
	}

	switch len(transports) {
	case 0:
		return nil, fmt.Errorf("%w: none configured", errUnknownTransport)
	case 1:
		return transports[0], nil
	default:
		return session.NewCompositeTransport(transports...), nil
	}
}

func idGenerator(format string) (session.IDGenerator, error) {
	switch strings.ToLower(format) {
	case "random", "":
		return session.RandomID, nil
	case "uuid":
		return session.UUIDID, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownIDFormat, format)
	}
}
