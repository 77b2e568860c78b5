package protocol

// Fixed request payload sizes. Variable-content messages declare the fixed
// prefix size; the content follows immediately after it.
const (
	RegisterRequestSize = UsernameSize + PasswordSize + PublicKeySize
	LoginRequestSize    = UsernameSize + PasswordSize
	NoteCreateFixedSize = TitleSize + 4
	NoteUpdateFixedSize = 4 + 4
	NoteIDSize          = 4
	NoteListEntrySize   = 4 + TitleSize + 8 + 8
	NoteGetFixedSize    = TitleSize + 4
)

// Response-side bounds. Responses are frames too, so everything the server
// sends has to fit under MaxPayloadSize.
const (
	// MaxNoteContentSize is the largest note content accepted at create or
	// update. Sized so that a NoteGet reply (title + length + content behind
	// the response header) always fits in one frame.
	MaxNoteContentSize = MaxPayloadSize - ResponseHeaderSize - NoteGetFixedSize

	// MaxNoteListEntries is the most entries one NoteList response can carry.
	MaxNoteListEntries = (MaxPayloadSize - ResponseHeaderSize) / NoteListEntrySize
)

// RegisterRequest carries a username, a plaintext password and the client's
// public key. The key field exists for wire compatibility; the server
// generates its own keypair at registration.
type RegisterRequest struct {
	Username  string
	Password  string
	PublicKey [PublicKeySize]byte
}

func (r *RegisterRequest) Encode() []byte {
	buf := make([]byte, RegisterRequestSize)
	putFixedString(buf[:UsernameSize], r.Username)
	putFixedString(buf[UsernameSize:UsernameSize+PasswordSize], r.Password)
	copy(buf[UsernameSize+PasswordSize:], r.PublicKey[:])
	return buf
}

func (r *RegisterRequest) Decode(payload []byte) error {
	if len(payload) < RegisterRequestSize {
		return ErrMalformedPayload
	}
	r.Username = fixedString(payload[:UsernameSize])
	r.Password = fixedString(payload[UsernameSize : UsernameSize+PasswordSize])
	copy(r.PublicKey[:], payload[UsernameSize+PasswordSize:RegisterRequestSize])
	return nil
}

type LoginRequest struct {
	Username string
	Password string
}

func (r *LoginRequest) Encode() []byte {
	buf := make([]byte, LoginRequestSize)
	putFixedString(buf[:UsernameSize], r.Username)
	putFixedString(buf[UsernameSize:], r.Password)
	return buf
}

func (r *LoginRequest) Decode(payload []byte) error {
	if len(payload) < LoginRequestSize {
		return ErrMalformedPayload
	}
	r.Username = fixedString(payload[:UsernameSize])
	r.Password = fixedString(payload[UsernameSize:LoginRequestSize])
	return nil
}

// NoteCreateRequest carries a fixed-width title, a 4-byte content length and
// the content itself. Decode rejects payloads whose declared content length
// does not match the bytes actually present.
type NoteCreateRequest struct {
	Title   string
	Content []byte
}

func (r *NoteCreateRequest) Encode() []byte {
	buf := make([]byte, NoteCreateFixedSize+len(r.Content))
	putFixedString(buf[:TitleSize], r.Title)
	byteOrder.PutUint32(buf[TitleSize:NoteCreateFixedSize], uint32(len(r.Content)))
	copy(buf[NoteCreateFixedSize:], r.Content)
	return buf
}

func (r *NoteCreateRequest) Decode(payload []byte) error {
	if len(payload) < NoteCreateFixedSize {
		return ErrMalformedPayload
	}
	contentLen := byteOrder.Uint32(payload[TitleSize:NoteCreateFixedSize])
	if int(contentLen) != len(payload)-NoteCreateFixedSize {
		return ErrMalformedPayload
	}
	r.Title = fixedString(payload[:TitleSize])
	r.Content = nil
	if contentLen > 0 {
		r.Content = payload[NoteCreateFixedSize:]
	}
	return nil
}

type NoteUpdateRequest struct {
	ID      uint32
	Content []byte
}

func (r *NoteUpdateRequest) Encode() []byte {
	buf := make([]byte, NoteUpdateFixedSize+len(r.Content))
	byteOrder.PutUint32(buf[0:4], r.ID)
	byteOrder.PutUint32(buf[4:8], uint32(len(r.Content)))
	copy(buf[NoteUpdateFixedSize:], r.Content)
	return buf
}

func (r *NoteUpdateRequest) Decode(payload []byte) error {
	if len(payload) < NoteUpdateFixedSize {
		return ErrMalformedPayload
	}
	contentLen := byteOrder.Uint32(payload[4:8])
	if int(contentLen) != len(payload)-NoteUpdateFixedSize {
		return ErrMalformedPayload
	}
	r.ID = byteOrder.Uint32(payload[0:4])
	r.Content = nil
	if contentLen > 0 {
		r.Content = payload[NoteUpdateFixedSize:]
	}
	return nil
}

// NoteIDRequest is the shared payload of NoteDelete and NoteGet: the raw
// 4-byte note id and nothing else.
type NoteIDRequest struct {
	ID uint32
}

func (r *NoteIDRequest) Encode() []byte {
	buf := make([]byte, NoteIDSize)
	byteOrder.PutUint32(buf, r.ID)
	return buf
}

func (r *NoteIDRequest) Decode(payload []byte) error {
	if len(payload) != NoteIDSize {
		return ErrMalformedPayload
	}
	r.ID = byteOrder.Uint32(payload)
	return nil
}

// NoteListEntry is one row of a NoteList response: id, title and unix
// timestamps. Content is never included in listings.
type NoteListEntry struct {
	ID        uint32
	Title     string
	CreatedAt int64
	UpdatedAt int64
}

func EncodeNoteList(entries []NoteListEntry) []byte {
	buf := make([]byte, len(entries)*NoteListEntrySize)
	off := 0
	for _, e := range entries {
		byteOrder.PutUint32(buf[off:off+4], e.ID)
		putFixedString(buf[off+4:off+4+TitleSize], e.Title)
		byteOrder.PutUint64(buf[off+4+TitleSize:off+4+TitleSize+8], uint64(e.CreatedAt))
		byteOrder.PutUint64(buf[off+4+TitleSize+8:off+NoteListEntrySize], uint64(e.UpdatedAt))
		off += NoteListEntrySize
	}
	return buf
}

func DecodeNoteList(data []byte) ([]NoteListEntry, error) {
	if len(data)%NoteListEntrySize != 0 {
		return nil, ErrMalformedPayload
	}
	entries := make([]NoteListEntry, 0, len(data)/NoteListEntrySize)
	for off := 0; off < len(data); off += NoteListEntrySize {
		entries = append(entries, NoteListEntry{
			ID:        byteOrder.Uint32(data[off : off+4]),
			Title:     fixedString(data[off+4 : off+4+TitleSize]),
			CreatedAt: int64(byteOrder.Uint64(data[off+4+TitleSize : off+4+TitleSize+8])),
			UpdatedAt: int64(byteOrder.Uint64(data[off+4+TitleSize+8 : off+NoteListEntrySize])),
		})
	}
	return entries, nil
}

// NoteGetResponse is the data section of a successful NoteGet reply:
// the title followed by the decrypted content.
type NoteGetResponse struct {
	Title   string
	Content []byte
}

func (r *NoteGetResponse) Encode() []byte {
	buf := make([]byte, NoteGetFixedSize+len(r.Content))
	putFixedString(buf[:TitleSize], r.Title)
	byteOrder.PutUint32(buf[TitleSize:NoteGetFixedSize], uint32(len(r.Content)))
	copy(buf[NoteGetFixedSize:], r.Content)
	return buf
}

func (r *NoteGetResponse) Decode(data []byte) error {
	if len(data) < NoteGetFixedSize {
		return ErrMalformedPayload
	}
	contentLen := byteOrder.Uint32(data[TitleSize:NoteGetFixedSize])
	if int(contentLen) != len(data)-NoteGetFixedSize {
		return ErrMalformedPayload
	}
	r.Title = fixedString(data[:TitleSize])
	r.Content = nil
	if contentLen > 0 {
		r.Content = data[NoteGetFixedSize:]
	}
	return nil
}
