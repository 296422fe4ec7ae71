package server

import (
	"fmt"
	"sync"
	"time"

	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
)

// VaultClientInterface defines the Vault operations the watcher needs
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// APIKeysCallback receives the rotated key list, or the error that stopped the fetch
type APIKeysCallback func(keys []string, err error)

// VaultWatcher polls a KVv2 secret holding the server API keys and hands the
// new list to its callback whenever the secret version increases
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onRotate     APIKeysCallback
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastCheck   time.Time
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, onRotate APIKeysCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onRotate:     onRotate,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start records the current secret version and begins polling
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}

	// Keys at the starting version were loaded with the config
	if secret, err := vw.client.GetSecretV2(vw.secretPath); err == nil && secret != nil {
		vw.lastVersion = secret.Version
	}

	vw.running = true
	go vw.pollLoop()
	if vw.logger != nil {
		vw.logger.Info("Vault watcher started",
			"secret_path", vw.secretPath,
			"poll_interval", vw.pollInterval,
			"version", vw.lastVersion)
	}
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	if vw.logger != nil {
		vw.logger.Info("Vault watcher stopped")
	}
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.poll()
		case <-vw.stopChan:
			return
		}
	}
}

// poll runs one check and notifies the callback when the keys changed
func (vw *VaultWatcher) poll() {
	keys, changed, err := vw.checkForUpdates()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to check Vault for API key updates")
		}
		vw.onRotate(nil, err)
		return
	}
	if !changed {
		return
	}
	if vw.logger != nil {
		vw.logger.Info("API keys rotated in Vault", "count", len(keys), "version", vw.version())
	}
	vw.onRotate(keys, nil)
}

// checkForUpdates reads the secret and returns its keys when the version moved forward
func (vw *VaultWatcher) checkForUpdates() ([]string, bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)

	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.lastCheck = time.Now()

	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return nil, false, fmt.Errorf("secret %s not found", vw.secretPath)
	}
	if secret.Version <= vw.lastVersion {
		return nil, false, nil
	}

	keys, err := secret.KeyList(config.VaultAPIKeysField)
	if err != nil {
		return nil, false, fmt.Errorf("invalid API key secret at %s: %w", vw.secretPath, err)
	}
	if len(keys) == 0 {
		return nil, false, fmt.Errorf("API key secret at %s is empty", vw.secretPath)
	}

	vw.lastVersion = secret.Version
	return keys, true, nil
}

func (vw *VaultWatcher) version() int64 {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.lastVersion
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"last_check":    vw.lastCheck,
	}
}
