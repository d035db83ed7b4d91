package hashall

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
)

// CSVHeader is the first line of CSV output.
const CSVHeader = "hash,filename"

// Format selects the line layout of the output.
type Format int

const (
	// FormatSum prints "<hex>  <label>", like md5sum and friends.
	FormatSum Format = iota
	// FormatCSV prints "<hex>,<label>" under a CSVHeader line.
	FormatCSV
)

// ParseFormat resolves a format name ("sum" or "csv").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sum", "":
		return FormatSum, nil
	case "csv":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("output format: unsupported value %q", name)
	}
}

func (f Format) String() string {
	switch f {
	case FormatSum:
		return "sum"
	case FormatCSV:
		return "csv"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Set implements pflag.Value.
func (f *Format) Set(name string) error {
	parsed, err := ParseFormat(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// UnmarshalText lets a Format be decoded from a config file.
func (f *Format) UnmarshalText(text []byte) error { return f.Set(string(text)) }

// Formatter renders (digest, label) pairs and writes them to an output.
// Every line is assembled in full and handed to the writer in a single Write
// under a lock, so concurrent workers never interleave partial lines and each
// result is visible as soon as it is emitted.
type Formatter struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	line   []byte
}

// NewFormatter returns a Formatter writing to w.
func NewFormatter(w io.Writer, format Format) *Formatter {
	return &Formatter{
		w:      w,
		format: format,
	}
}

// Header writes the CSV header. It writes nothing for other formats.
func (f *Formatter) Header() error {
	if f.format != FormatCSV {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := io.WriteString(f.w, CSVHeader+"\n")
	return err
}

// Emit writes one result line.
func (f *Formatter) Emit(sum []byte, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.line = AppendLine(f.line[:0], f.format, sum, label)
	_, err := f.w.Write(f.line)
	return err
}

// AppendLine appends the newline-terminated rendering of one result to dst.
func AppendLine(dst []byte, format Format, sum []byte, label string) []byte {
	dst = hex.AppendEncode(dst, sum)
	switch format {
	case FormatCSV:
		dst = append(dst, ',')
		dst = appendCSVField(dst, label)
	default:
		dst = append(dst, "  "...)
		dst = append(dst, label...)
	}
	return append(dst, '\n')
}

// appendCSVField quotes labels containing a comma, doubling inner quotes.
func appendCSVField(dst []byte, field string) []byte {
	if !strings.Contains(field, ",") {
		return append(dst, field...)
	}
	dst = append(dst, '"')
	dst = append(dst, strings.ReplaceAll(field, `"`, `""`)...)
	return append(dst, '"')
}
