// Package client implements a thin client for the notes server protocol:
// one TCP connection, synchronous request/response, the session token carried
// automatically after login.
package client

import (
	"errors"
	"fmt"
	"net"

	"github.com/dmitrijs2005/ecnotes/internal/protocol"
)

// APIError is a non-ok response code returned by the server.
type APIError struct {
	Code protocol.ErrCode
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server: %s", e.Code)
}

// Client is not safe for concurrent use; the protocol is strictly one
// response per request on a single connection.
type Client struct {
	conn  net.Conn
	token [protocol.TokenSize]byte
	buf   []byte
}

func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Register creates an account. The public-key field of the request stays
// zeroed; the server generates the keypair itself.
func (c *Client) Register(username, password string) error {
	req := protocol.RegisterRequest{Username: username, Password: password}
	_, err := c.roundTrip(protocol.MsgRegister, req.Encode())
	return err
}

// Login authenticates and stores the returned session token for subsequent
// calls on this client.
func (c *Client) Login(username, password string) error {
	req := protocol.LoginRequest{Username: username, Password: password}
	data, err := c.roundTrip(protocol.MsgLogin, req.Encode())
	if err != nil {
		return err
	}
	if len(data) != protocol.TokenSize {
		return fmt.Errorf("login: unexpected token length %d", len(data))
	}
	copy(c.token[:], data)
	return nil
}

// Logout closes the session and forgets the token.
func (c *Client) Logout() error {
	_, err := c.roundTrip(protocol.MsgLogout, nil)
	c.token = [protocol.TokenSize]byte{}
	return err
}

func (c *Client) NoteCreate(title string, content []byte) error {
	if len(content) > protocol.MaxNoteContentSize {
		return fmt.Errorf("note content exceeds %d bytes", protocol.MaxNoteContentSize)
	}
	req := protocol.NoteCreateRequest{Title: title, Content: content}
	_, err := c.roundTrip(protocol.MsgNoteCreate, req.Encode())
	return err
}

func (c *Client) NoteUpdate(id uint32, content []byte) error {
	if len(content) > protocol.MaxNoteContentSize {
		return fmt.Errorf("note content exceeds %d bytes", protocol.MaxNoteContentSize)
	}
	req := protocol.NoteUpdateRequest{ID: id, Content: content}
	_, err := c.roundTrip(protocol.MsgNoteUpdate, req.Encode())
	return err
}

func (c *Client) NoteDelete(id uint32) error {
	req := protocol.NoteIDRequest{ID: id}
	_, err := c.roundTrip(protocol.MsgNoteDelete, req.Encode())
	return err
}

func (c *Client) NoteList() ([]protocol.NoteListEntry, error) {
	data, err := c.roundTrip(protocol.MsgNoteList, nil)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeNoteList(data)
}

func (c *Client) NoteGet(id uint32) (string, []byte, error) {
	req := protocol.NoteIDRequest{ID: id}
	data, err := c.roundTrip(protocol.MsgNoteGet, req.Encode())
	if err != nil {
		return "", nil, err
	}

	var resp protocol.NoteGetResponse
	if err := resp.Decode(data); err != nil {
		return "", nil, err
	}
	return resp.Title, resp.Content, nil
}

// roundTrip sends one request and reads exactly one response. A non-ok
// response code comes back as *APIError.
func (c *Client) roundTrip(msgType protocol.MsgType, payload []byte) ([]byte, error) {
	msg, err := protocol.EncodeFrame(msgType, c.token, payload)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if _, err := c.conn.Write(msg); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	frame, err := c.readFrame()
	if err != nil {
		return nil, err
	}
	if frame.Header.Type != protocol.MsgResponse && frame.Header.Type != protocol.MsgError {
		return nil, fmt.Errorf("unexpected message type %d", frame.Header.Type)
	}

	code, data, err := protocol.DecodeResponse(frame.Payload)
	if err != nil {
		return nil, err
	}
	if code != protocol.ErrNone {
		return nil, &APIError{Code: code}
	}
	return data, nil
}

func (c *Client) readFrame() (*protocol.Frame, error) {
	chunk := make([]byte, 1024)
	for {
		frame, consumed, err := protocol.DecodeFrame(c.buf)
		if err == nil {
			c.buf = c.buf[consumed:]
			return frame, nil
		}
		if !errors.Is(err, protocol.ErrIncomplete) {
			return nil, err
		}

		n, rerr := c.conn.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
			continue
		}
		if rerr != nil {
			return nil, fmt.Errorf("read: %w", rerr)
		}
	}
}
