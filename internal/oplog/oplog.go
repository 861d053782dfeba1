// Package oplog records every file write performed by a rewrite as an
// append-only structured log. The log sits behind the command performer as
// a decorator over its FileWriter: writes are forwarded unchanged, and a
// record is appended afterwards. Logging failures never fail the write —
// they are surfaced as warnings, matching the forward-then-record contract
// of an interception shim.
package oplog

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // content fingerprinting, not security
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pierrec/lz4/v4"
)

// Sentinel errors for log decoding.
var (
	errFrameTruncated = errors.New("oplog: truncated frame")
	errFrameTooLarge  = errors.New("oplog: frame exceeds size limit")
)

// maxFrameSize bounds a single decoded record; anything larger indicates a
// corrupt log.
const maxFrameSize = 1 << 20

// frameHeaderSize is two little-endian uint32s: compressed and raw length.
const frameHeaderSize = 8

// OpRewrite is the operation name for destructuring rewrites.
const OpRewrite = "rewrite"

// Record is one logged file operation.
type Record struct {
	Time       time.Time `json:"time"`
	Op         string    `json:"op"`
	Path       string    `json:"path"`
	BeforeHash string    `json:"before_hash"`
	AfterHash  string    `json:"after_hash"`
	BeforeSize int       `json:"before_size"`
	AfterSize  int       `json:"after_size"`
}

// Log is an append-only operation log. Each record is stored as one
// LZ4-compressed frame: [compressed len][raw len][block].
type Log struct {
	path string
	mu   sync.Mutex
}

// Open creates a Log appending to the given path. The file is created
// lazily on first append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append encodes and appends one record.
func (l *Log) Append(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("oplog: encode record: %w", err)
	}

	frame, err := encodeFrame(raw)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("oplog: open %s: %w", l.path, err)
	}
	defer file.Close()

	if _, err := file.Write(frame); err != nil {
		return fmt.Errorf("oplog: append to %s: %w", l.path, err)
	}

	return nil
}

// ReadAll decodes every record in the log, oldest first. A missing log file
// yields no records and no error.
func (l *Log) ReadAll() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("oplog: read %s: %w", l.path, err)
	}

	return decodeAll(data)
}

// encodeFrame compresses raw into one log frame.
func encodeFrame(raw []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))

	written, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("oplog: compress record: %w", err)
	}

	// Incompressible payloads are stored raw, flagged by written == 0.
	body := compressed[:written]
	if written == 0 {
		body = raw
	}

	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(body)))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(raw)))

	return append(frame, body...), nil
}

// decodeAll walks the frame sequence.
func decodeAll(data []byte) ([]Record, error) {
	var records []Record

	reader := bytes.NewReader(data)

	for reader.Len() > 0 {
		rec, err := decodeFrame(reader)
		if err != nil {
			return records, err
		}

		records = append(records, rec)
	}

	return records, nil
}

func decodeFrame(reader *bytes.Reader) (Record, error) {
	header := make([]byte, frameHeaderSize)

	if _, err := io.ReadFull(reader, header); err != nil {
		return Record{}, fmt.Errorf("%w: %s", errFrameTruncated, err)
	}

	bodyLen := binary.LittleEndian.Uint32(header[0:4])
	rawLen := binary.LittleEndian.Uint32(header[4:8])

	if bodyLen > maxFrameSize || rawLen > maxFrameSize {
		return Record{}, errFrameTooLarge
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(reader, body); err != nil {
		return Record{}, fmt.Errorf("%w: %s", errFrameTruncated, err)
	}

	raw := body

	if bodyLen != rawLen {
		raw = make([]byte, rawLen)
		if _, err := lz4.UncompressBlock(body, raw); err != nil {
			return Record{}, fmt.Errorf("oplog: decompress frame: %w", err)
		}
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("oplog: decode record: %w", err)
	}

	return rec, nil
}

// HashContent returns the hex SHA1 fingerprint of file content.
func HashContent(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // content fingerprint only

	return hex.EncodeToString(sum[:])
}
