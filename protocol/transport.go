package protocol

import "encoding/binary"

// Bus frame layout: [length][sequence][payload...][crc16 hi][crc16 lo][sync].
// The length byte covers the entire frame. The sequence byte carries the
// frame destination in its high nibble and a rolling counter in the low
// nibble; replies echo the sequence of the frame they answer. The command
// bus is assumed reliable and ordered, so there is no retransmission --
// the sequence exists for desync detection only.
const (
	FrameHeaderSize  = 2 // length + sequence
	FrameTrailerSize = 3 // crc16 + trailing sync
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64
	FrameSync        = 0x7E
	FrameSeqMask     = 0x0F
	FrameDest        = 0x10

	// OutputMax sizes the staging buffer for outgoing frames; several
	// replies may accumulate before the transport flushes.
	OutputMax = 512
)

// AppendFrame stages one complete frame carrying payload into out.
func AppendFrame(out OutputBuffer, seq byte, payload []byte) {
	cursor := out.CurPosition()
	out.Output([]byte{0, seq})
	out.Output(payload)

	body := out.DataSince(cursor)
	out.Update(cursor, byte(len(body)+FrameTrailerSize))

	crc := CRC16(out.DataSince(cursor))
	out.Output([]byte{byte(crc >> 8), byte(crc), FrameSync})
}

// FrameScanner extracts frames from a bus byte stream. After any framing
// violation it drops data until the next sync byte before resuming.
type FrameScanner struct {
	synced bool
}

// NewFrameScanner returns a scanner that starts in the synchronized state.
func NewFrameScanner() *FrameScanner {
	return &FrameScanner{synced: true}
}

// Next returns the sequence byte and payload of the next complete frame
// in the input, consuming everything up to and including it. It returns
// ok=false when no complete frame is buffered yet. The payload slice is
// only valid until the next call.
func (s *FrameScanner) Next(in InputBuffer) (seq byte, payload []byte, ok bool) {
	data := in.Data()
	total := len(data)

	for len(data) > 0 {
		if !s.synced {
			// Drop garbage up to the next sync byte.
			pos := -1
			for i, b := range data {
				if b == FrameSync {
					pos = i
					break
				}
			}
			if pos < 0 {
				data = nil
				break
			}
			data = data[pos+1:]
			s.synced = true
			continue
		}

		if data[0] == FrameSync {
			data = data[1:]
			continue
		}

		if len(data) < FrameLengthMin {
			break
		}

		frameLen := int(data[0])
		if frameLen < FrameLengthMin || frameLen > FrameLengthMax {
			s.synced = false
			continue
		}
		if data[1]&^byte(FrameSeqMask) != FrameDest {
			s.synced = false
			continue
		}
		if len(data) < frameLen {
			break
		}
		if data[frameLen-1] != FrameSync {
			s.synced = false
			continue
		}

		want := uint16(data[frameLen-3])<<8 | uint16(data[frameLen-2])
		if want != CRC16(data[:frameLen-FrameTrailerSize]) {
			s.synced = false
			continue
		}

		seq = data[1]
		payload = data[FrameHeaderSize : frameLen-FrameTrailerSize]
		data = data[frameLen:]
		in.Pop(total - len(data))
		return seq, payload, true
	}

	in.Pop(total - len(data))
	return 0, nil, false
}

// Handler processes one decoded command and returns the status-word reply.
type Handler func(cmd byte, word uint32) StatusWord

// Transport is the peripheral side of the command bus: it scans incoming
// frames, hands each command to the handler and stages the status reply.
type Transport struct {
	scan    *FrameScanner
	out     OutputBuffer
	order   binary.ByteOrder
	handle  Handler
	flushCb func()
}

// NewTransport creates a peripheral-side transport writing replies to out.
func NewTransport(out OutputBuffer, order binary.ByteOrder, handler Handler) *Transport {
	return &Transport{
		scan:   NewFrameScanner(),
		out:    out,
		order:  order,
		handle: handler,
	}
}

// SetFlushCallback registers a callback invoked after each staged reply
// so the platform can push it to the wire immediately.
func (t *Transport) SetFlushCallback(cb func()) {
	t.flushCb = cb
}

// Receive drains all complete frames from the input buffer.
func (t *Transport) Receive(in InputBuffer) {
	for {
		seq, payload, ok := t.scan.Next(in)
		if !ok {
			return
		}
		t.reply(seq, t.decode(payload))
	}
}

// decode runs one frame payload through the command handler. Payloads
// that do not match the command layout are fed to the handler as an
// invalid command so the dispatcher records a parse error.
func (t *Transport) decode(payload []byte) StatusWord {
	if len(payload) == 0 {
		return t.handle(0, 0)
	}
	cmd := payload[0]
	if cmd == CmdWrite {
		if len(payload) != 1+WordBytes {
			return t.handle(0, 0)
		}
		return t.handle(cmd, Word(payload[1:], t.order))
	}
	if len(payload) != 1 {
		return t.handle(0, 0)
	}
	return t.handle(cmd, 0)
}

func (t *Transport) reply(seq byte, sw StatusWord) {
	var buf [WordBytes]byte
	PutWord(buf[:], t.order, uint32(sw))
	AppendFrame(t.out, seq, buf[:])
	if t.flushCb != nil {
		t.flushCb()
	}
}
