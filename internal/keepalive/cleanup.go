package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultCleanupTimeout bounds how long Execute waits for releases to finish.
const DefaultCleanupTimeout = 5 * time.Second

// CleanupManager releases registered resources exactly once, newest first,
// within a timeout.
type CleanupManager struct {
	mu        sync.Mutex
	resources []cleanupResource
	timeout   time.Duration

	once sync.Once
	err  error
}

type cleanupResource struct {
	name string
	fn   func() error
}

// NewCleanupManager creates a cleanup manager with the specified timeout.
func NewCleanupManager(timeout time.Duration) *CleanupManager {
	if timeout <= 0 {
		timeout = DefaultCleanupTimeout
	}
	return &CleanupManager{timeout: timeout}
}

// RegisterFunc registers a named release function.
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, cleanupResource{name: name, fn: fn})
}

// Len returns the number of registered resources.
func (cm *CleanupManager) Len() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.resources)
}

// Execute releases every resource on the first call and returns the joined
// errors. Later calls return the same result without releasing anything.
func (cm *CleanupManager) Execute() error {
	cm.once.Do(func() {
		cm.err = cm.executeWithTimeout()
	})
	return cm.err
}

func (cm *CleanupManager) executeWithTimeout() error {
	cm.mu.Lock()
	resources := make([]cleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var (
		mu   sync.Mutex
		errs []error
	)

	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			if err := release(resources[i]); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("cleanup: timeout after %v, some resources may not have been released", cm.timeout)
		mu.Lock()
		errs = append(errs, fmt.Errorf("cleanup timeout exceeded after %v", cm.timeout))
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

func release(r cleanupResource) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("cleanup: panic releasing %s: %v", r.name, p)
			err = fmt.Errorf("panic releasing %s: %v", r.name, p)
		}
	}()

	if err := r.fn(); err != nil {
		log.Printf("cleanup: error releasing %s: %v", r.name, err)
		return fmt.Errorf("release %s: %w", r.name, err)
	}
	log.Printf("cleanup: released %s", r.name)
	return nil
}
