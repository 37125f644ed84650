// Package tlsconfig builds client TLS settings for talking to OData services
// behind private CAs or mutual TLS.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"slices"

	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

// Files names PEM material on disk. Relative paths resolve against the
// baseDir given to Build.
type Files struct {
	RootCAs     []string
	ClientCert  string
	ClientKey   string
	Insecure    bool
	SystemRoots bool
}

// Empty reports whether f leaves the default transport TLS untouched.
func (f Files) Empty() bool {
	return !f.Insecure && len(f.RootCAs) == 0 && f.ClientCert == "" && f.ClientKey == ""
}

func (f Files) Equal(other Files) bool {
	return f.Insecure == other.Insecure &&
		f.SystemRoots == other.SystemRoots &&
		f.ClientCert == other.ClientCert &&
		f.ClientKey == other.ClientKey &&
		slices.Equal(f.RootCAs, other.RootCAs)
}

// Build returns nil for an empty Files. Custom roots replace the system pool
// unless SystemRoots is set.
func Build(f Files, baseDir string) (*tls.Config, error) {
	if f.Empty() {
		return nil, nil
	}
	tc := &tls.Config{InsecureSkipVerify: f.Insecure} // nolint:gosec

	if len(f.RootCAs) > 0 {
		pool, err := rootPool(f.RootCAs, baseDir, f.SystemRoots)
		if err != nil {
			return nil, err
		}
		tc.RootCAs = pool
	}

	switch {
	case f.ClientCert == "" && f.ClientKey == "":
	case f.ClientCert == "" || f.ClientKey == "":
		return nil, errdef.New(errdef.CodeConfig, "client_cert and client_key must be set together")
	default:
		cert, err := tls.LoadX509KeyPair(resolve(f.ClientCert, baseDir), resolve(f.ClientKey, baseDir))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeHTTP, err, "load client certificate")
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

func rootPool(paths []string, baseDir string, withSystem bool) (*x509.CertPool, error) {
	var pool *x509.CertPool
	if withSystem {
		pool, _ = x509.SystemCertPool()
	}
	if pool == nil {
		pool = x509.NewCertPool()
	}
	for _, p := range paths {
		data, err := os.ReadFile(resolve(p, baseDir))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read root ca %s", p)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, errdef.New(errdef.CodeHTTP, "no certificates in %s", p)
		}
	}
	return pool, nil
}

func resolve(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
