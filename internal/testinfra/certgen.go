package testinfra

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// KeyPair holds one PEM-encoded certificate with its private key.
type KeyPair struct {
	CertPEM []byte
	KeyPEM  []byte
}

// CertBundle is a throwaway PKI for TLS test servers: a self-signed CA,
// a server leaf valid for the given hosts, and a client leaf issued for
// the postgres test role.
type CertBundle struct {
	CA     KeyPair
	Server KeyPair
	Client KeyPair
}

// CertPaths are the on-disk locations of a written bundle, named after
// the libpq parameters they feed (sslrootcert, sslcert, sslkey).
type CertPaths struct {
	CACert     string
	ServerCert string
	ServerKey  string
	ClientCert string
	ClientKey  string
}

// GenerateCertBundle creates a fresh CA and issues server and client
// leaves from it. Hosts may be DNS names or IP literals; both end up in
// the server certificate's SANs. The client certificate's CommonName is
// the postgres test user, which is what clientcert=verify-full matches
// against the connecting role.
func GenerateCertBundle(hosts []string) (*CertBundle, error) {
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate CA key: %w", err)
	}

	caSerial, err := randomSerial()
	if err != nil {
		return nil, err
	}

	caTemplate := &x509.Certificate{
		SerialNumber:          caSerial,
		Subject:               pkix.Name{CommonName: "pgcall-test-ca"},
		NotBefore:             time.Now().Add(-5 * time.Minute),
		NotAfter:              time.Now().Add(2 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		return nil, fmt.Errorf("create CA certificate: %w", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return nil, fmt.Errorf("parse CA certificate: %w", err)
	}
	caKeyPEM, err := encodeKeyPEM(caKey)
	if err != nil {
		return nil, fmt.Errorf("encode CA key: %w", err)
	}

	serverTemplate := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "pgcall-test-server"},
		NotBefore:   caTemplate.NotBefore,
		NotAfter:    caTemplate.NotAfter,
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	server, err := issueLeaf(serverTemplate, caCert, caKey)
	if err != nil {
		return nil, fmt.Errorf("issue server certificate: %w", err)
	}

	clientTemplate := &x509.Certificate{
		Subject:     pkix.Name{CommonName: PostgresUser},
		NotBefore:   caTemplate.NotBefore,
		NotAfter:    caTemplate.NotAfter,
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	client, err := issueLeaf(clientTemplate, caCert, caKey)
	if err != nil {
		return nil, fmt.Errorf("issue client certificate: %w", err)
	}

	return &CertBundle{
		CA:     KeyPair{CertPEM: encodeCertPEM(caDER), KeyPEM: caKeyPEM},
		Server: server,
		Client: client,
	}, nil
}

// WriteToDir writes the bundle's certificates and keys into dir and
// returns their paths. Everything is 0600: libpq refuses to load an
// sslkey with looser permissions.
func (b *CertBundle) WriteToDir(dir string) (*CertPaths, error) {
	paths := &CertPaths{
		CACert:     filepath.Join(dir, "ca.crt"),
		ServerCert: filepath.Join(dir, "server.crt"),
		ServerKey:  filepath.Join(dir, "server.key"),
		ClientCert: filepath.Join(dir, "client.crt"),
		ClientKey:  filepath.Join(dir, "client.key"),
	}

	files := map[string][]byte{
		paths.CACert:     b.CA.CertPEM,
		paths.ServerCert: b.Server.CertPEM,
		paths.ServerKey:  b.Server.KeyPEM,
		paths.ClientCert: b.Client.CertPEM,
		paths.ClientKey:  b.Client.KeyPEM,
	}
	for path, data := range files {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}

	return paths, nil
}

// issueLeaf generates a key for the template and signs it with the CA.
func issueLeaf(template *x509.Certificate, ca *x509.Certificate, caKey *ecdsa.PrivateKey) (KeyPair, error) {
	serial, err := randomSerial()
	if err != nil {
		return KeyPair{}, err
	}
	template.SerialNumber = serial

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key: %w", err)
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca, &key.PublicKey, caKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("sign certificate: %w", err)
	}

	keyPEM, err := encodeKeyPEM(key)
	if err != nil {
		return KeyPair{}, fmt.Errorf("encode key: %w", err)
	}

	return KeyPair{CertPEM: encodeCertPEM(der), KeyPEM: keyPEM}, nil
}

func randomSerial() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, fmt.Errorf("generate serial: %w", err)
	}
	return serial, nil
}

func encodeCertPEM(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func encodeKeyPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}
