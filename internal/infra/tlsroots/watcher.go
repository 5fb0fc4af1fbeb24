package tlsroots

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/minikv-go/internal/telemetry/logger"
)

// DefaultDebounce is the minimum interval between two reloads.
const DefaultDebounce = 500 * time.Millisecond

// CertWatcher holds the server key pair and reloads it when the
// certificate or key file is rewritten. Connections already established
// keep the certificate they negotiated with.
type CertWatcher struct {
	certFile string
	keyFile  string
	log      logger.Logger
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	reloadMu   sync.Mutex
	lastReload time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a CertWatcher.
type WatcherOption func(*CertWatcher)

// WithLogger sets the watcher logger.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *CertWatcher) {
		w.log = l
	}
}

// WithDebounce sets the minimum interval between reloads. Zero reloads on
// every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *CertWatcher) {
		w.debounce = d
	}
}

// NewCertWatcher loads the key pair. It fails when the initial load fails.
func NewCertWatcher(certFile, keyFile string, opts ...WatcherOption) (*CertWatcher, error) {
	w := &CertWatcher{
		certFile: filepath.Clean(certFile),
		keyFile:  filepath.Clean(keyFile),
		log:      logger.Discard(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.Reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return w, nil
}

// Start watches the directories holding the key pair until Stop is
// called. Watching the directory keeps working across editor renames.
func (w *CertWatcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	defer fw.Close()

	dirs := map[string]bool{
		filepath.Dir(w.certFile): true,
		filepath.Dir(w.keyFile):  true,
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}

	w.log.Info("certificate watcher started", "cert_file", w.certFile, "key_file", w.keyFile)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if name != w.certFile && name != w.keyFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.log.Debug("certificate file changed", "file", name, "op", event.Op.String())
			if err := w.debouncedReload(); err != nil {
				// The previous key pair stays in use.
				w.log.Error("certificate reload failed", "error", err, "cert_file", w.certFile)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("certificate watcher error", "error", err)

		case <-w.done:
			return nil
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *CertWatcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.log.Error("certificate watcher stopped", "error", err)
		}
	}()
}

// Stop ends watching. It is safe to call more than once.
func (w *CertWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// GetCertificate returns the current key pair. It has the signature of
// tls.Config.GetCertificate.
func (w *CertWatcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// ServerConfig returns a listener TLS config serving the current key pair.
func (w *CertWatcher) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Reload loads the key pair from disk and swaps it in on success.
func (w *CertWatcher) Reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.log.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}

func (w *CertWatcher) debouncedReload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	now := time.Now()
	if w.debounce > 0 && now.Sub(w.lastReload) < w.debounce {
		return nil
	}
	// A failed load is retried on the next event, e.g. once the key half
	// of a rotation has been written too.
	if err := w.Reload(); err != nil {
		return err
	}
	w.lastReload = now
	return nil
}
