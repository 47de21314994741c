package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// ErrClosed is returned by Start after Stop.
var ErrClosed = errors.New("ipc server closed")

// Server listens on a Unix domain socket for NDJSON requests.
//
// Protocol: each line is a Request; the server answers each with one
// Response line. A connection may carry any number of requests.
type Server struct {
	socketPath string
	handler    Handler
	logger     *slog.Logger

	listener net.Listener
	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a server for socketPath that dispatches to handler.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
		done:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

// SocketPath returns the listening path.
func (server *Server) SocketPath() string { return server.socketPath }

// Start removes any stale socket, listens with owner-only permissions and
// begins accepting connections.
func (server *Server) Start() error {
	select {
	case <-server.done:
		return ErrClosed
	default:
	}

	if err := os.MkdirAll(filepath.Dir(server.socketPath), 0o700); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	if err := os.Remove(server.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", server.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.socketPath, err)
	}
	if err := os.Chmod(server.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	server.listener = listener

	server.wg.Add(1)
	go server.acceptLoop()

	server.logger.Info("ipc listening", "socket", server.socketPath)
	return nil
}

// Stop closes the listener and open connections, waits for handlers and
// removes the socket file. It is safe to call more than once.
func (server *Server) Stop() {
	server.stopOnce.Do(func() {
		close(server.done)
		if server.listener != nil {
			server.listener.Close()
		}

		server.mu.Lock()
		for conn := range server.conns {
			conn.Close()
		}
		server.mu.Unlock()

		server.wg.Wait()
		if server.listener != nil {
			os.Remove(server.socketPath)
		}
	})
}

func (server *Server) acceptLoop() {
	defer server.wg.Done()

	for {
		conn, err := server.listener.Accept()
		if err != nil {
			select {
			case <-server.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			server.logger.Debug("accept connection", "error", err)
			continue
		}

		if !server.track(conn) {
			conn.Close()
			return
		}
		server.wg.Add(1)
		go server.handleConn(conn)
	}
}

func (server *Server) track(conn net.Conn) bool {
	server.mu.Lock()
	defer server.mu.Unlock()
	select {
	case <-server.done:
		return false
	default:
	}
	server.conns[conn] = struct{}{}
	return true
}

func (server *Server) untrack(conn net.Conn) {
	server.mu.Lock()
	delete(server.conns, conn)
	server.mu.Unlock()
}

func (server *Server) handleConn(conn net.Conn) {
	defer server.wg.Done()
	defer server.untrack(conn)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-server.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var response Response
		var request Request
		if err := json.Unmarshal(line, &request); err != nil {
			response = Response{Error: fmt.Sprintf("malformed request: %v", err)}
		} else {
			requestCtx, requestCancel := context.WithTimeout(ctx, defaultRequestTimeout)
			response = server.handler.Execute(requestCtx, request)
			requestCancel()
		}

		if err := encoder.Encode(response); err != nil {
			server.logger.Debug("write response", "error", err)
			return
		}
	}
}
