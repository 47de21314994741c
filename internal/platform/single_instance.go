package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"os/user"
	"sync"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceLock is held by the one running instance per user.
type InstanceLock struct {
	mu       sync.Mutex
	listener net.Listener
	address  string
}

// AcquireInstanceLock binds a localhost port derived from appName and the
// current user. A second caller gets ErrAlreadyRunning.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	return acquireAt(fmt.Sprintf("127.0.0.1:%d", lockPort(appName+"\x00"+currentUser())))
}

func acquireAt(address string) (*InstanceLock, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if addressInUse(err) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("bind instance lock %s: %w", address, err)
	}
	return &InstanceLock{listener: listener, address: address}, nil
}

// Release frees the lock. It is safe to call more than once.
func (lock *InstanceLock) Release() error {
	if lock == nil {
		return nil
	}
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Address returns the bound address.
func (lock *InstanceLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}

func lockPort(key string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

func currentUser() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}
