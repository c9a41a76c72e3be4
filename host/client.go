// Package host implements the host side of the polystep command bus: a
// client that frames commands over a serial link, streams move
// instructions and handles queue backpressure.
package host

import (
	"errors"
	"io"

	"polystep/core"
	"polystep/protocol"
)

var (
	ErrNoReply        = errors.New("no status reply from peripheral")
	ErrBadReply       = errors.New("malformed status reply")
	ErrRejected       = errors.New("peripheral rejected the instruction")
	ErrQueueStuckFull = errors.New("instruction queue stayed full")
)

const (
	// defaultSendRetries bounds whole-instruction resends after a
	// BufferFull reply; each retry first polls for queue space.
	defaultSendRetries = 8
	defaultSpacePolls  = 64

	// maxReadAttempts bounds how many reads roundTrip waits for a reply.
	maxReadAttempts = 64
)

// Client speaks the command bus from the host side. It is not safe for
// concurrent use; the bus itself is strictly request/reply.
type Client struct {
	port io.ReadWriter
	cfg  core.Config

	seq     byte
	scan    *protocol.FrameScanner
	rx      *protocol.ByteFifo
	out     *protocol.ScratchOutput
	readBuf [64]byte

	// SendRetries and SpacePolls tune BufferFull backpressure handling.
	SendRetries int
	SpacePolls  int
}

// NewClient creates a client for a peripheral configured with cfg. The
// axis count and byte order must match the peripheral's build.
func NewClient(port io.ReadWriter, cfg core.Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		port:        port,
		cfg:         cfg,
		scan:        protocol.NewFrameScanner(),
		rx:          protocol.NewByteFifo(1024),
		out:         protocol.NewScratchOutput(),
		SendRetries: defaultSendRetries,
		SpacePolls:  defaultSpacePolls,
	}
}

// Status queries the peripheral. The reply read-clears the error field
// on the device.
func (c *Client) Status() (protocol.StatusWord, error) {
	return c.roundTrip([]byte{protocol.CmdStatus})
}

// Start enables execution. Idempotent.
func (c *Client) Start() (protocol.StatusWord, error) {
	return c.roundTrip([]byte{protocol.CmdStart})
}

// Stop pauses execution and discards any partially written instruction.
func (c *Client) Stop() (protocol.StatusWord, error) {
	return c.roundTrip([]byte{protocol.CmdStop})
}

// WriteWord issues a single WRITE command.
func (c *Client) WriteWord(w uint32) (protocol.StatusWord, error) {
	var payload [1 + protocol.WordBytes]byte
	payload[0] = protocol.CmdWrite
	protocol.PutWord(payload[1:], c.cfg.ByteOrder, w)
	return c.roundTrip(payload[:])
}

// Send streams one move instruction. On a BufferFull reply the whole
// instruction is resent once the peripheral reports queue space, since
// the device discards rejected instructions whole.
func (c *Client) Send(instr core.MoveInstruction) error {
	if code := instr.Check(&c.cfg); code != protocol.ErrorNone {
		return ErrRejected
	}
	words := instr.EncodeWords()

	for attempt := 0; attempt <= c.SendRetries; attempt++ {
		sw, err := c.sendWords(words)
		if err != nil {
			return err
		}
		switch sw.Error() {
		case protocol.ErrorNone:
			return nil
		case protocol.ErrorBufferFull:
			if err := c.waitForSpace(); err != nil {
				return err
			}
		default:
			return ErrRejected
		}
	}
	return ErrQueueStuckFull
}

// SendPath streams a sequence of segments in order.
func (c *Client) SendPath(path []core.MoveInstruction) error {
	for _, instr := range path {
		if err := c.Send(instr); err != nil {
			return err
		}
	}
	return nil
}

// sendWords writes every word of one instruction and returns the reply
// to the completing word, which is where validation and queue errors
// surface.
func (c *Client) sendWords(words []uint32) (protocol.StatusWord, error) {
	var sw protocol.StatusWord
	var err error
	for _, w := range words {
		if sw, err = c.WriteWord(w); err != nil {
			return 0, err
		}
	}
	return sw, nil
}

// waitForSpace polls STATUS until the queue-full flag clears.
func (c *Client) waitForSpace() error {
	for i := 0; i < c.SpacePolls; i++ {
		sw, err := c.Status()
		if err != nil {
			return err
		}
		if !sw.QueueFull() {
			return nil
		}
	}
	return ErrQueueStuckFull
}

// roundTrip frames one command, writes it and waits for the status reply.
func (c *Client) roundTrip(payload []byte) (protocol.StatusWord, error) {
	c.out.Reset()
	protocol.AppendFrame(c.out, protocol.FrameDest|c.seq, payload)
	c.seq = (c.seq + 1) & protocol.FrameSeqMask

	if _, err := c.port.Write(c.out.Result()); err != nil {
		return 0, err
	}

	for i := 0; i < maxReadAttempts; i++ {
		if _, reply, ok := c.scan.Next(c.rx); ok {
			if len(reply) != protocol.WordBytes {
				return 0, ErrBadReply
			}
			return protocol.StatusWord(protocol.Word(reply, c.cfg.ByteOrder)), nil
		}

		n, err := c.port.Read(c.readBuf[:])
		if n > 0 {
			c.rx.Write(c.readBuf[:n])
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, ErrNoReply
}
