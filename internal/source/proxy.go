package source

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyAuth holds optional SOCKS5 username/password credentials.
type ProxyAuth struct {
	User     string
	Password string
}

// NewProxyClient returns an HTTP client that dials through the SOCKS5 proxy at
// address. The proxy is not contacted until the first request.
func NewProxyClient(address string, auth *ProxyAuth, timeout time.Duration) (*http.Client, error) {
	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}

	var socksAuth *proxy.Auth
	if auth != nil && auth.User != "" {
		socksAuth = &proxy.Auth{User: auth.User, Password: auth.Password}
	}

	dialer, err := proxy.SOCKS5("tcp", address, socksAuth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	transport := &http.Transport{
		DialContext:           contextDialer(dialer),
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// contextDialer adapts a proxy.Dialer to the DialContext signature.
// The SOCKS5 dialer implements proxy.ContextDialer; other dialers fall back to
// a dial that honours cancellation only while waiting for the result.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case r := <-resultCh:
			return r.conn, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isValidProxyAddress checks that address is host:port with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
