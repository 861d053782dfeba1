package oplog

import (
	"log/slog"
	"time"

	"github.com/dekot-dev/dekot/pkg/command"
)

// Interceptor wraps a command.FileWriter and appends an operation record
// after every successful write. The write result is never affected by the
// log: an append failure is reported as a warning and swallowed.
type Interceptor struct {
	inner  command.FileWriter
	log    *Log
	logger *slog.Logger

	// before caches the hash and size of the last content read per path so
	// the write record can describe the transition.
	before map[string]fileState
}

type fileState struct {
	hash string
	size int
}

// NewInterceptor decorates inner with operation logging into log.
func NewInterceptor(inner command.FileWriter, log *Log, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Interceptor{
		inner:  inner,
		log:    log,
		logger: logger,
		before: make(map[string]fileState),
	}
}

// ReadFile forwards to the wrapped writer and remembers the content
// fingerprint for the next write record on the same path.
func (i *Interceptor) ReadFile(path string) ([]byte, error) {
	data, err := i.inner.ReadFile(path)
	if err != nil {
		return nil, err
	}

	i.before[path] = fileState{hash: HashContent(data), size: len(data)}

	return data, nil
}

// WriteFile forwards to the wrapped writer, then appends a record.
func (i *Interceptor) WriteFile(path string, data []byte) error {
	if err := i.inner.WriteFile(path, data); err != nil {
		return err
	}

	prior := i.before[path]

	rec := Record{
		Time:       time.Now().UTC(),
		Op:         OpRewrite,
		Path:       path,
		BeforeHash: prior.hash,
		AfterHash:  HashContent(data),
		BeforeSize: prior.size,
		AfterSize:  len(data),
	}

	if err := i.log.Append(rec); err != nil {
		i.logger.Warn("operation log append failed", "path", path, "error", err)
	}

	return nil
}
