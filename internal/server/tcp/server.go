// Package tcp implements the connection core: a bounded thread-per-connection
// TCP listener feeding the frame codec and the request dispatcher.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ecnotes/internal/logging"
	"github.com/dmitrijs2005/ecnotes/internal/protocol"
)

// readChunkSize is the per-read buffer; frames larger than one chunk are
// assembled across reads.
const readChunkSize = 1024

// Server accepts TCP clients and runs one goroutine per connection. A
// mutex-guarded registry bounds the number of live connections; a client
// arriving at capacity is disconnected immediately without a response.
type Server struct {
	addr       string
	maxClients int
	handler    *Handler
	logger     logging.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[string]net.Conn

	wg sync.WaitGroup
}

func NewServer(addr string, maxClients int, handler *Handler, logger logging.Logger) *Server {
	return &Server{
		addr:       addr,
		maxClients: maxClients,
		handler:    handler,
		logger:     logger,
		conns:      make(map[string]net.Conn),
	}
}

// Listen binds the server's address. Split from Serve so callers binding
// port 0 can read the assigned address before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run binds and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve accepts connections until ctx is cancelled, then closes the listener
// and every live socket and waits for all connection goroutines to finish.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("serve before listen")
	}

	s.logger.Info(ctx, "server listening", "addr", ln.Addr().String(), "max_clients", s.maxClients)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
			s.closeAll()
		case <-stopped:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn(ctx, "accept failed", "error", err.Error())
			continue
		}

		id := uuid.NewString()
		if !s.register(id, conn) {
			// at capacity: no response frame, just a closed socket
			s.logger.Warn(ctx, "connection limit reached, rejecting client",
				"remote", conn.RemoteAddr().String())
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, id, conn)
		}()
	}

	close(stopped)
	s.wg.Wait()
	s.logger.Info(ctx, "server stopped")
	return nil
}

// serveConn runs the read-decode-dispatch-respond loop for one client.
func (s *Server) serveConn(ctx context.Context, id string, conn net.Conn) {
	defer s.release(id)

	log := s.logger.With("conn_id", id, "remote", conn.RemoteAddr().String())
	log.Info(ctx, "client connected")

	buf := make([]byte, 0, protocol.MaxMessageSize)
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)

			for {
				frame, consumed, derr := protocol.DecodeFrame(buf)
				if derr != nil {
					if errors.Is(derr, protocol.ErrIncomplete) {
						break
					}
					// protocol violation: answer once, then drop the client
					code := protocol.ErrInvalidRequest
					if errors.Is(derr, protocol.ErrVersionMismatch) {
						code = protocol.ErrVersion
					}
					resp, _ := protocol.EncodeResponse(code, nil)
					_, _ = conn.Write(resp)
					log.Warn(ctx, "protocol violation, closing connection", "error", derr.Error())
					return
				}
				buf = buf[consumed:]

				resp := s.handler.Handle(ctx, frame)
				if _, werr := conn.Write(resp); werr != nil {
					log.Warn(ctx, "write failed", "error", werr.Error())
					return
				}
			}
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info(ctx, "client disconnected")
			case errors.Is(err, net.ErrClosed):
				log.Info(ctx, "connection closed during shutdown")
			default:
				log.Warn(ctx, "read failed", "error", err.Error())
			}
			return
		}
	}
}

// register reserves a registry slot. It refuses when the server is full.
func (s *Server) register(id string, conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conns) >= s.maxClients {
		return false
	}
	s.conns[id] = conn
	return true
}

// release frees a slot exactly once and closes the socket.
func (s *Server) release(id string) {
	s.mu.Lock()
	conn, ok := s.conns[id]
	delete(s.conns, id)
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		_ = conn.Close()
	}
}
