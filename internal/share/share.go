// Package share encodes quizzes into self-contained tokens that travel in
// links, and decodes them back. Tokens are checksummed against accidental
// corruption; they are not signed.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

const (
	// Prefix starts every token of the current format.
	Prefix = "bq1."

	version byte = 1

	// maxPayload bounds the JSON size accepted by Decode.
	maxPayload = 1 << 20

	// ParamShare and ParamSlot are the link query parameters.
	ParamShare = "share"
	ParamSlot  = "slot"
)

var ErrInvalidToken = errors.New("invalid share token")

// DecodeError describes why a token was rejected. It matches
// ErrInvalidToken with errors.Is.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrInvalidToken, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidToken, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrInvalidToken }

func invalid(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}

// Encode serializes q into a token. Only quizzes that could be taken are
// encodable, so every token Encode returns is accepted by Decode. A quiz
// without an ID is given a fresh one in the token; q itself is not changed.
func Encode(q *quiz.Session) (string, error) {
	if err := quiz.Validate(q); err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}
	if err := quiz.CheckSession(q); err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}
	if q.ID == "" {
		q = q.Clone()
		q.ID = uuid.NewString()
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}

	buf := appendFrame([]byte{version}, payload)
	return Prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// appendFrame appends the length-prefixed, checksummed payload to buf.
func appendFrame(buf, payload []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(payload)))
	buf = append(buf, payload...)
	return binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(payload))
}

// Decode parses a token produced by Encode. Every failure is a *DecodeError.
func Decode(token string) (*quiz.Session, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, Prefix) {
		return nil, invalid("missing prefix", nil)
	}
	raw, err := base64.RawURLEncoding.DecodeString(token[len(Prefix):])
	if err != nil {
		return nil, invalid("bad encoding", err)
	}
	if len(raw) == 0 {
		return nil, invalid("empty token", nil)
	}
	if raw[0] != version {
		return nil, invalid(fmt.Sprintf("unsupported version %d", raw[0]), nil)
	}

	size, n := binary.Uvarint(raw[1:])
	if n <= 0 || size > maxPayload {
		return nil, invalid("bad length", nil)
	}
	body := raw[1+n:]
	if uint64(len(body)) != size+4 {
		return nil, invalid("truncated payload", nil)
	}
	payload, sum := body[:size], body[size:]
	if crc32.ChecksumIEEE(payload) != binary.BigEndian.Uint32(sum) {
		return nil, invalid("checksum mismatch", nil)
	}

	var q quiz.Session
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return nil, invalid("malformed quiz", err)
	}
	if err := quiz.CheckSession(&q); err != nil {
		return nil, invalid("malformed question", err)
	}
	if err := quiz.Validate(&q); err != nil {
		return nil, invalid("incomplete quiz", err)
	}
	if q.ID == "" {
		return nil, invalid("missing quiz id", nil)
	}
	return &q, nil
}

// Link returns baseURL with the token in its share parameter.
func Link(baseURL, token string) (string, error) {
	return withParam(baseURL, ParamShare, token)
}

// SlotLink returns baseURL pointing at a local slot by share ID.
func SlotLink(baseURL, shareID string) (string, error) {
	return withParam(baseURL, ParamSlot, shareID)
}

func withParam(baseURL, key, value string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Ref is what a pasted link points at: either an embedded quiz token or a
// local slot's share ID.
type Ref struct {
	Token   string
	ShareID string
}

// ParseLink accepts a full link or a bare token.
func ParseLink(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, invalid("empty link", nil)
	}
	if strings.HasPrefix(s, Prefix) {
		return Ref{Token: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Ref{}, invalid("bad link", err)
	}
	params := u.Query()
	if t := params.Get(ParamShare); t != "" {
		return Ref{Token: t}, nil
	}
	if id := params.Get(ParamSlot); id != "" {
		return Ref{ShareID: id}, nil
	}
	return Ref{}, invalid("link has no share or slot parameter", nil)
}
