package util

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DefaultBufferSize is the read buffer used when none is configured.
const DefaultBufferSize = 1000 * 1000

// Algorithm selects the hash function used for a run.
type Algorithm int

const (
	MD5 Algorithm = iota
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	SHA3_256
	SHA3_512
	BLAKE2b256
	BLAKE2b512
	BLAKE3
)

var algorithmNames = [...]string{
	MD5:        "md5",
	SHA1:       "sha1",
	SHA224:     "sha224",
	SHA256:     "sha256",
	SHA384:     "sha384",
	SHA512:     "sha512",
	SHA3_256:   "sha3-256",
	SHA3_512:   "sha3-512",
	BLAKE2b256: "blake2b-256",
	BLAKE2b512: "blake2b-512",
	BLAKE3:     "blake3",
}

// Algorithms returns every supported algorithm in display order.
func Algorithms() []Algorithm {
	algos := make([]Algorithm, len(algorithmNames))
	for i := range algorithmNames {
		algos[i] = Algorithm(i)
	}
	return algos
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("unknown(%d)", int(a))
	}
	return algorithmNames[a]
}

// Set implements pflag.Value so an Algorithm can be bound directly to a flag.
func (a *Algorithm) Set(name string) error {
	parsed, err := ParseAlgorithm(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Type implements pflag.Value.
func (a *Algorithm) Type() string { return "algorithm" }

// UnmarshalText lets an Algorithm be decoded from a config file.
func (a *Algorithm) UnmarshalText(text []byte) error {
	return a.Set(string(text))
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA224:
		return sha256.New224()
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	case SHA3_256:
		return sha3.New256()
	case SHA3_512:
		return sha3.New512()
	case BLAKE2b256:
		// only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return h
	case BLAKE2b512:
		h, _ := blake2b.New512(nil)
		return h
	case BLAKE3:
		return blake3.New()
	default:
		panic(fmt.Sprintf("util: hash state requested for %s", a))
	}
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	return a.New().Size()
}

// Digester turns byte streams into digests using one hash state and one
// read buffer. It is not safe for concurrent use; the worker pool keeps one
// Digester per worker.
type Digester struct {
	algo Algorithm
	h    hash.Hash
	buf  []byte
	sum  []byte
}

// NewDigester allocates a Digester whose read buffer holds bufferSize bytes.
func NewDigester(algo Algorithm, bufferSize int) (*Digester, error) {
	if bufferSize <= 0 {
		return nil, ErrBufferSize
	}
	if algo < 0 || int(algo) >= len(algorithmNames) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo)
	}
	h := algo.New()
	return &Digester{
		algo: algo,
		h:    h,
		buf:  make([]byte, bufferSize),
		sum:  make([]byte, 0, h.Size()),
	}, nil
}

// Algorithm reports the algorithm the Digester was built for.
func (d *Digester) Algorithm() Algorithm { return d.algo }

// Digest reads r until EOF and returns the digest of everything read along
// with the number of bytes consumed. The hash state is reset before Digest
// returns, whether or not it succeeded.
//
// The returned slice is owned by the Digester and is overwritten by the next
// call.
func (d *Digester) Digest(r io.Reader) ([]byte, int64, error) {
	defer d.h.Reset()

	var total int64
	for {
		n, err := r.Read(d.buf)
		if n > 0 {
			// hash.Hash.Write never returns an error
			d.h.Write(d.buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, err
		}
	}
	d.sum = d.h.Sum(d.sum[:0])
	return d.sum, total, nil
}

// DigestFile hashes the regular file at path.
func (d *Digester) DigestFile(path string) ([]byte, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%s: %w", path, ErrExpectedFile)
	}
	return d.Digest(file)
}
