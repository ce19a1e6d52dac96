package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/crypto/sha3"
)

const bufferSize = 64 * 1024 // 64KB buffer

// ErrUnknownAlgorithm is returned when an algorithm name cannot be resolved.
var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// Algorithm names a supported digest function.
type Algorithm string

const (
	SHA2_256 Algorithm = "sha2-256"
	SHA2_512 Algorithm = "sha2-512"
	SHA3_256 Algorithm = "sha3-256"
	SHA3_512 Algorithm = "sha3-512"

	DefaultAlgorithm = SHA2_256
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{SHA2_256, SHA2_512, SHA3_256, SHA3_512}

// ParseAlgorithm accepts both "sha2-256" and "SHA2_256" spellings.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	for _, alg := range Algorithms {
		if string(alg) == normalized {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Size returns the native digest width in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA2_256, SHA3_256:
		return 32
	case SHA2_512, SHA3_512:
		return 64
	default:
		return 0
	}
}

func (a Algorithm) String() string {
	return string(a)
}

// Digest holds the raw bytes of a content checksum. It is comparable and
// can be used directly as a map key.
type Digest string

// Bytes returns a copy of the raw digest bytes.
func (d Digest) Bytes() []byte {
	return []byte(d)
}

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString([]byte(d))
}

// Provider computes digests with one fixed algorithm.
type Provider interface {
	Algorithm() Algorithm
	Size() int
	Sum(r io.Reader) (Digest, error)
}

type hashProvider struct {
	algorithm Algorithm
	newHash   func() hash.Hash
}

// New returns the Provider for the given algorithm.
func New(alg Algorithm) (Provider, error) {
	var newHash func() hash.Hash
	switch alg {
	case SHA2_256:
		newHash = sha256.New
	case SHA2_512:
		newHash = sha512.New
	case SHA3_256:
		newHash = sha3.New256
	case SHA3_512:
		newHash = sha3.New512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
	return &hashProvider{algorithm: alg, newHash: newHash}, nil
}

func (p *hashProvider) Algorithm() Algorithm {
	return p.algorithm
}

func (p *hashProvider) Size() int {
	return p.algorithm.Size()
}

// Sum streams r through the hash in fixed-size chunks.
func (p *hashProvider) Sum(r io.Reader) (Digest, error) {
	h := p.newHash()
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := h.Write(buffer[:n]); err != nil {
				return "", fmt.Errorf("write to hash: %w", err)
			}
		}
		// A zero-length read ends the stream, same as io.EOF.
		if err == io.EOF || (n == 0 && err == nil) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
	}

	sum := h.Sum(nil)
	if len(sum) != p.Size() {
		return "", fmt.Errorf("%s produced %d bytes, want %d", p.algorithm, len(sum), p.Size())
	}
	return Digest(sum), nil
}

// SumFile opens path on fs and returns its digest. The file is closed before returning.
func SumFile(fs billy.Basic, p Provider, path string) (Digest, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return p.Sum(file)
}
