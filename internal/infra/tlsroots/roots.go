package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCertsFound is returned when a PEM source holds no certificates.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found")

// Pool is a set of trusted root certificates.
type Pool struct {
	certs *x509.CertPool
	added int
}

// NewPool creates a pool seeded with the system roots.
// If the system roots are unavailable the pool starts empty.
func NewPool() *Pool {
	certs, err := x509.SystemCertPool()
	if err != nil {
		certs = x509.NewCertPool()
	}
	return &Pool{certs: certs}
}

// NewEmptyPool creates a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certs: x509.NewCertPool()}
}

// AddPEM adds every CERTIFICATE block in data.
func (p *Pool) AddPEM(data []byte) error {
	var n int
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certs.AddCert(cert)
		n++
	}
	if n == 0 {
		return ErrNoCertsFound
	}
	p.added += n
	return nil
}

// AddPath adds certificates from a PEM file, or from every .pem, .crt and
// .cer file in a directory. A directory without usable certificates is an
// error.
func (p *Pool) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tlsroots: %w", err)
	}
	if !info.IsDir() {
		return p.addFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read dir %s: %w", path, err)
	}
	var errs []error
	before := p.added
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pem", ".crt", ".cer":
			if err := p.addFile(filepath.Join(path, e.Name())); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if p.added == before {
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		return fmt.Errorf("%w in %s", ErrNoCertsFound, path)
	}
	return nil
}

func (p *Pool) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	if err := p.AddPEM(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// TLSConfig returns a client TLS config trusting this pool.
func (p *Pool) TLSConfig() *tls.Config {
	return &tls.Config{
		RootCAs:    p.certs,
		MinVersion: tls.VersionTLS12,
	}
}

// ClientConfig returns a client TLS config trusting the system roots plus
// the certificates at caPath. An empty caPath returns nil, meaning the
// transport defaults apply.
func ClientConfig(caPath string) (*tls.Config, error) {
	if caPath == "" {
		return nil, nil
	}
	p := NewPool()
	if err := p.AddPath(caPath); err != nil {
		return nil, err
	}
	return p.TLSConfig(), nil
}
