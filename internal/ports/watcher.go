package ports

// Watcher monitors an inbox directory for new input files.
// The adapter (fsnotify) filters events down to the accepted file suffix and
// debounces editor double-writes before invoking onFile.
type Watcher interface {
	// Watch starts monitoring dir (non-recursively). onFile is called with the
	// absolute path of each created or rewritten input file. The callback may
	// be invoked from any goroutine. Returns an error if the directory doesn't
	// exist or permissions are insufficient.
	Watch(dir string, onFile func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onFile calls will fire. Safe to call multiple times.
	Stop() error
}
