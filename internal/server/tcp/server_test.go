package tcp

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecnotes/internal/client"
	"github.com/dmitrijs2005/ecnotes/internal/protocol"
)

// startServer runs a server on a random port against in-memory storage and
// returns its address. The server is shut down when the test finishes.
func startServer(t *testing.T, maxClients int) string {
	t.Helper()

	srv := NewServer("127.0.0.1:0", maxClients, newTestHandler(t), discardLogger())
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	return srv.Addr().String()
}

func TestServer_FullScenario(t *testing.T) {
	addr := startServer(t, 16)

	alice, err := client.Dial(addr)
	require.NoError(t, err)
	defer alice.Close()

	require.NoError(t, alice.Register("alice", "pw-alice"))
	require.NoError(t, alice.Login("alice", "pw-alice"))
	require.NoError(t, alice.NoteCreate("first", []byte("hello world")))

	list, err := alice.NoteList()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Title)
	assert.NotZero(t, list[0].CreatedAt)

	title, content, err := alice.NoteGet(list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "first", title)
	assert.Equal(t, []byte("hello world"), content)

	// bob cannot read alice's note
	bob, err := client.Dial(addr)
	require.NoError(t, err)
	defer bob.Close()

	require.NoError(t, bob.Register("bob", "pw-bob"))
	require.NoError(t, bob.Login("bob", "pw-bob"))

	_, _, err = bob.NoteGet(list[0].ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, protocol.ErrAuthFailed, apiErr.Code)

	// logout kills the session
	require.NoError(t, alice.Logout())
	_, err = alice.NoteList()
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, protocol.ErrInvalidSession, apiErr.Code)
}

func TestServer_MultipleRequestsPerConnection(t *testing.T) {
	addr := startServer(t, 4)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Register("alice", "pw"))
	require.NoError(t, c.Login("alice", "pw"))

	for i := 0; i < 20; i++ {
		require.NoError(t, c.NoteCreate(fmt.Sprintf("note-%02d", i), []byte("body")))
		time.Sleep(time.Millisecond)
	}

	// listings carry at most one frame's worth of entries, newest first
	list, err := c.NoteList()
	require.NoError(t, err)
	require.Len(t, list, protocol.MaxNoteListEntries)
	assert.Equal(t, "note-19", list[0].Title)

	// every note is still individually reachable
	for _, entry := range list {
		_, content, err := c.NoteGet(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("body"), content)
	}
}

func TestServer_ConcurrentClients(t *testing.T) {
	const users = 4
	const notesPerUser = 5

	addr := startServer(t, users)

	var wg sync.WaitGroup
	errCh := make(chan error, users)

	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errCh <- func() error {
				c, err := client.Dial(addr)
				if err != nil {
					return err
				}
				defer c.Close()

				name := fmt.Sprintf("user-%d", i)
				if err := c.Register(name, "pw"); err != nil {
					return err
				}
				if err := c.Login(name, "pw"); err != nil {
					return err
				}
				for j := 0; j < notesPerUser; j++ {
					title := fmt.Sprintf("%s note %d", name, j)
					if err := c.NoteCreate(title, []byte(title)); err != nil {
						return err
					}
				}
				return nil
			}()
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// every note landed under its author
	for i := 0; i < users; i++ {
		c, err := client.Dial(addr)
		require.NoError(t, err)

		name := fmt.Sprintf("user-%d", i)
		require.NoError(t, c.Login(name, "pw"))

		list, err := c.NoteList()
		require.NoError(t, err)
		require.Len(t, list, notesPerUser)

		for _, entry := range list {
			_, content, err := c.NoteGet(entry.ID)
			require.NoError(t, err)
			assert.Equal(t, entry.Title, string(content))
			assert.Contains(t, entry.Title, name)
		}
		c.Close()
	}
}

func TestServer_ConnectionLimit(t *testing.T) {
	addr := startServer(t, 2)

	// fill both slots and prove they work
	c1, err := client.Dial(addr)
	require.NoError(t, err)
	defer c1.Close()
	require.NoError(t, c1.Register("u1", "pw"))

	c2, err := client.Dial(addr)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Register("u2", "pw"))

	// the third client is cut off without a response
	c3, err := client.Dial(addr)
	require.NoError(t, err)
	defer c3.Close()
	require.Error(t, c3.Register("u3", "pw"))

	// a freed slot becomes usable again
	c1.Close()
	require.Eventually(t, func() bool {
		c4, err := client.Dial(addr)
		if err != nil {
			return false
		}
		defer c4.Close()
		return c4.Register("u4", "pw") == nil
	}, 2*time.Second, 50*time.Millisecond)
}

func TestServer_ProtocolViolationClosesConnection(t *testing.T) {
	addr := startServer(t, 4)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Register("alice", "pw"))

	raw, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer raw.Close()

	// a frame with the wrong version draws one error response, then EOF
	var zeroToken [protocol.TokenSize]byte
	frame, err := protocol.EncodeFrame(protocol.MsgNoteList, zeroToken, nil)
	require.NoError(t, err)
	frame[0] = 99
	_, err = raw.Write(frame)
	require.NoError(t, err)

	require.NoError(t, raw.SetReadDeadline(time.Now().Add(2*time.Second)))
	resp := make([]byte, protocol.MaxMessageSize)
	n, err := io.ReadAtLeast(raw, resp, protocol.HeaderSize+protocol.ResponseHeaderSize)
	require.NoError(t, err)

	decoded, _, err := protocol.DecodeFrame(resp[:n])
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgError, decoded.Header.Type)
	code, _, err := protocol.DecodeResponse(decoded.Payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrVersion, code)

	// the server hangs up after the error response
	_, err = raw.Read(resp)
	require.Error(t, err)

	// other connections are unaffected
	require.NoError(t, c.Login("alice", "pw"))
}

func TestServer_ShutdownClosesClients(t *testing.T) {
	srv := NewServer("127.0.0.1:0", 4, newTestHandler(t), discardLogger())
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	c, err := client.Dial(srv.Addr().String())
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Register("alice", "pw"))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	// the live connection was force-closed
	err = c.Register("bob", "pw")
	require.Error(t, err)

	// and no new connections are accepted
	if c2, err := client.Dial(srv.Addr().String()); err == nil {
		defer c2.Close()
		require.Error(t, c2.Register("carol", "pw"))
	}
}
