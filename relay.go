package main

import (
	"errors"
	"fmt"
	"io"
	"net"

	"gosuda.org/portal/portal/core/cryptoops"
	"gosuda.org/portal/sdk"
)

// relayOpener opens one relay listener and returns the client that owns it.
type relayOpener func(url string) (net.Listener, io.Closer, error)

// portalRelay dials url with the portal sdk and listens under name.
func portalRelay(cred *cryptoops.Credential, name string) relayOpener {
	return func(url string) (net.Listener, io.Closer, error) {
		client, err := sdk.NewClient(func(c *sdk.RDClientConfig) { c.BootstrapServers = []string{url} })
		if err != nil {
			return nil, nil, fmt.Errorf("new client: %w", err)
		}
		ln, err := client.Listen(cred, name, []string{"http/1.1"})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("listen: %w", err)
		}
		return ln, client, nil
	}
}

// relays holds every listener opened for the configured relay URLs.
type relays struct {
	listeners []net.Listener
	clients   []io.Closer
}

// openRelays opens a listener per url. Any failure closes what was already
// opened and aborts.
func openRelays(urls []string, open relayOpener) (*relays, error) {
	r := &relays{}
	for _, u := range urls {
		ln, c, err := open(u)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("relay %s: %w", u, err)
		}
		r.listeners = append(r.listeners, ln)
		r.clients = append(r.clients, c)
	}
	return r, nil
}

// Close stops every listener, then every client.
func (r *relays) Close() error {
	var errs []error
	for _, ln := range r.listeners {
		if err := ln.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range r.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.listeners, r.clients = nil, nil
	return errors.Join(errs...)
}
