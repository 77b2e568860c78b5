package protocol

// DecodeFrame attempts to extract one complete frame from the front of buf.
//
// It returns the decoded frame and the number of bytes consumed. If buf does
// not yet hold a complete frame the error is ErrIncomplete and the caller
// must read more bytes before retrying. ErrVersionMismatch and
// ErrPayloadTooLarge are protocol violations; the declared length is never
// trusted before it is checked against MaxPayloadSize.
func DecodeFrame(buf []byte) (*Frame, int, error) {
	if len(buf) < HeaderSize {
		return nil, 0, ErrIncomplete
	}

	h := Header{
		Version:    buf[0],
		Type:       MsgType(buf[1]),
		PayloadLen: byteOrder.Uint16(buf[2:4]),
	}
	copy(h.Token[:], buf[4:HeaderSize])

	if h.Version != Version {
		return nil, 0, ErrVersionMismatch
	}
	if int(h.PayloadLen) > MaxPayloadSize {
		return nil, 0, ErrPayloadTooLarge
	}

	total := HeaderSize + int(h.PayloadLen)
	if len(buf) < total {
		return nil, 0, ErrIncomplete
	}

	payload := make([]byte, h.PayloadLen)
	copy(payload, buf[HeaderSize:total])

	return &Frame{Header: h, Payload: payload}, total, nil
}

// EncodeFrame serializes a header and payload into one wire message.
// The header's PayloadLen is set from len(payload). A payload larger than
// MaxPayloadSize is refused with ErrPayloadTooLarge; the encoder must never
// emit a frame its own decoder rejects, and the uint16 length field would
// silently truncate past 65535 bytes.
func EncodeFrame(msgType MsgType, token [TokenSize]byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, HeaderSize+len(payload))
	buf[0] = Version
	buf[1] = byte(msgType)
	byteOrder.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[4:HeaderSize], token[:])
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// ResponseHeaderSize is the fixed prefix of every response payload:
// error_code(1) + data_len(4).
const ResponseHeaderSize = 5

// EncodeResponse builds a complete response frame. The outer message type is
// MsgResponse when code is ErrNone and MsgError otherwise; either way the
// error code inside the payload is authoritative. The token field is always
// zero-filled on responses. Data that would not fit in one frame is refused
// with ErrPayloadTooLarge; MaxNoteContentSize and MaxNoteListEntries keep
// every well-formed response under that bound.
func EncodeResponse(code ErrCode, data []byte) ([]byte, error) {
	if ResponseHeaderSize+len(data) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	payload := make([]byte, ResponseHeaderSize+len(data))
	payload[0] = byte(code)
	byteOrder.PutUint32(payload[1:5], uint32(len(data)))
	copy(payload[ResponseHeaderSize:], data)

	msgType := MsgResponse
	if code != ErrNone {
		msgType = MsgError
	}
	var zeroToken [TokenSize]byte
	return EncodeFrame(msgType, zeroToken, payload)
}

// DecodeResponse parses a response payload into its error code and data.
func DecodeResponse(payload []byte) (ErrCode, []byte, error) {
	if len(payload) < ResponseHeaderSize {
		return 0, nil, ErrMalformedPayload
	}
	code := ErrCode(payload[0])
	dataLen := byteOrder.Uint32(payload[1:5])
	if int(dataLen) != len(payload)-ResponseHeaderSize {
		return 0, nil, ErrMalformedPayload
	}
	return code, payload[ResponseHeaderSize:], nil
}

// fixedString copies s into a zero-padded fixed-width field.
// Overlong values are truncated; the last byte stays NUL so the existing C
// clients can always read the field as a terminated string.
func putFixedString(dst []byte, s string) {
	n := copy(dst[:len(dst)-1], s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// fixedString reads a NUL-padded fixed-width field back into a string.
func fixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
