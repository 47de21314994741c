//go:build windows

package platform

import (
	"errors"
	"syscall"
)

// wsaeAddrInUse is WSAEADDRINUSE from winsock.
const wsaeAddrInUse = syscall.Errno(10048)

func addressInUse(err error) bool {
	return errors.Is(err, wsaeAddrInUse) || errors.Is(err, syscall.EADDRINUSE)
}
