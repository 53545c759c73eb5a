package remoteagent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// ErrShutdown is returned by in-flight calls when the client is closed
// while they're waiting on a response.
var ErrShutdown = errors.New("remoteagent: client shut down")

// ErrProtocolVersion is returned if the agent's bootstrap ReadyFrame
// doesn't declare the version this client speaks.
var ErrProtocolVersion = errors.New("remoteagent: unsupported protocol version")

// pendingCall is one in-flight request: a channel for its terminal
// frame, and an accumulator for data frames that arrive first.
type pendingCall struct {
	data   chan []byte
	result chan callResult
}

type callResult struct {
	result []byte
	err    error
}

// Client speaks the remote-agent protocol over a single connection.
// One line in, one line out; Call correlates requests to responses by
// id the same way internal/lsp/transport.go's Transport does for
// JSON-RPC, adapted to this protocol's data/result/error frame split.
type Client struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	mu      sync.Mutex
	nextID  atomic.Int64
	pending map[int64]*pendingCall

	closed atomic.Bool
	done   chan struct{}
}

// NewClient wraps a connection. Call Start to begin reading frames; the
// channel passed to Start receives the agent's bootstrap message.
func NewClient(r io.Reader, w io.Writer, c io.Closer) *Client {
	return &Client{
		reader:  bufio.NewReaderSize(r, 64*1024),
		writer:  w,
		closer:  c,
		pending: make(map[int64]*pendingCall),
		done:    make(chan struct{}),
	}
}

// Start begins the read loop in a goroutine. ready receives the
// bootstrap ReadyFrame once observed (nil if the connection closes
// first without one).
func (c *Client) Start(ctx context.Context, ready chan<- *ReadyFrame) {
	go c.readLoop(ctx, ready)
}

// Close shuts the client down; in-flight Calls return ErrShutdown.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.done)

	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[int64]*pendingCall)
	c.mu.Unlock()
	for _, p := range pending {
		p.result <- callResult{err: ErrShutdown}
	}

	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Call sends method with params (pre-marshaled JSON, or nil) and
// blocks for the terminal frame, collecting any data frames that
// arrive first. Returns the raw result JSON on success.
func (c *Client) Call(ctx context.Context, method Method, params []byte) ([]byte, [][]byte, error) {
	if c.closed.Load() {
		return nil, nil, ErrShutdown
	}

	id := c.nextID.Add(1)
	call := &pendingCall{data: make(chan []byte, 16), result: make(chan callResult, 1)}

	c.mu.Lock()
	c.pending[id] = call
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	line, err := encodeRequest(id, method, params)
	if err != nil {
		return nil, nil, err
	}
	if err := c.send(line); err != nil {
		return nil, nil, fmt.Errorf("remoteagent: send request: %w", err)
	}

	var data [][]byte
	for {
		select {
		case <-ctx.Done():
			c.cancelRequest(id)
			return nil, nil, ctx.Err()
		case <-c.done:
			return nil, nil, ErrShutdown
		case d := <-call.data:
			data = append(data, d)
		case res := <-call.result:
			if res.err != nil {
				return nil, data, res.err
			}
			return res.result, data, nil
		}
	}
}

// cancelRequest fires a cancel{id} request without waiting for its
// response — best effort, since the caller has already given up on
// ctx and won't read anything further for id.
func (c *Client) cancelRequest(id int64) {
	params, err := cancelParams(id)
	if err != nil {
		return
	}
	cancelID := c.nextID.Add(1)
	req, err := encodeRequest(cancelID, MethodCancel, params)
	if err != nil {
		return
	}
	_ = c.send(req)
}

func (c *Client) send(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.writer.Write(line); err != nil {
		return err
	}
	_, err := c.writer.Write([]byte{'\n'})
	return err
}

func (c *Client) readLoop(ctx context.Context, ready chan<- *ReadyFrame) {
	sawReady := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		line, err := c.reader.ReadBytes('\n')
		if len(line) > 0 {
			c.handleLine(line, &sawReady, ready)
		}
		if err != nil {
			if !sawReady && ready != nil {
				ready <- nil
			}
			_ = c.Close()
			return
		}
	}
}

func (c *Client) handleLine(line []byte, sawReady *bool, ready chan<- *ReadyFrame) {
	switch classify(line) {
	case frameReady:
		if *sawReady {
			return
		}
		*sawReady = true
		ok, version := decodeReady(line)
		if ready != nil {
			ready <- &ReadyFrame{OK: ok, Version: version}
		}
	case frameData:
		id, data := decodeData(line)
		c.mu.Lock()
		p, ok := c.pending[id]
		c.mu.Unlock()
		if ok {
			p.data <- data
		}
	case frameResult:
		id, result := decodeResult(line)
		c.mu.Lock()
		p, ok := c.pending[id]
		c.mu.Unlock()
		if ok {
			p.result <- callResult{result: result}
		}
	case frameError:
		id, message := decodeError(line)
		c.mu.Lock()
		p, ok := c.pending[id]
		c.mu.Unlock()
		if ok {
			p.result <- callResult{err: errors.New(message)}
		}
	}
}
