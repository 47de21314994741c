package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client sends requests to a running instance over its socket.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
}

// Dial connects to the socket at socketPath.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to focusbar: %w", err)
	}
	return &Client{conn: conn, scanner: bufio.NewScanner(conn)}, nil
}

// Close shuts down the connection.
func (client *Client) Close() error {
	if client.conn != nil {
		return client.conn.Close()
	}
	return nil
}

// Send writes request and reads one response line.
func (client *Client) Send(request Request) (Response, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	data, err := json.Marshal(request)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := client.conn.Write(data); err != nil {
		return Response{}, fmt.Errorf("write request: %w", err)
	}

	if !client.scanner.Scan() {
		if err := client.scanner.Err(); err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		return Response{}, fmt.Errorf("connection closed")
	}

	var response Response
	if err := json.Unmarshal(client.scanner.Bytes(), &response); err != nil {
		return Response{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return response, nil
}

// SendOnce dials, sends one request and closes the connection.
func SendOnce(socketPath string, request Request) (Response, error) {
	client, err := Dial(socketPath)
	if err != nil {
		return Response{}, err
	}
	defer client.Close()
	return client.Send(request)
}
