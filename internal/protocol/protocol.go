// Package protocol implements the line-delimited JSON envelope spoken between
// the client and the server.
//
// Every message is one UTF-8 line. A request carries a type tag and a
// payload string whose fields are joined with common.PayloadDelimiter. A
// reply carries "success" with the current incident list, or "fail" with a
// human readable message.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

// Request types.
const (
	TypeLogin          = "login"
	TypeAddIncident    = "addIncident"
	TypeUpdateIncident = "updateIncident"
	TypeDeleteIncident = "deleteIncident"
	TypeSubscribe      = "subscribe"
	// TypeListen is the legacy name of TypeSubscribe.
	TypeListen = "listen"
)

// Reply types.
const (
	TypeSuccess = "success"
	TypeFail    = "fail"
)

// Message is a request envelope.
type Message struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// Reply is a decoded reply envelope. Payload is kept raw until the caller
// knows which of the two shapes it holds.
type Reply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type successReply struct {
	Type    string            `json:"type"`
	Payload []models.Incident `json:"payload"`
}

type failReply struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// NewMessage builds a request whose payload joins fields with the delimiter.
func NewMessage(typ string, fields ...string) Message {
	return Message{Type: typ, Payload: JoinPayload(fields...)}
}

func JoinPayload(fields ...string) string {
	return strings.Join(fields, common.PayloadDelimiter)
}

// SplitPayload splits payload into exactly n fields. The last field keeps
// any further delimiters verbatim.
func SplitPayload(payload string, n int) ([]string, error) {
	parts := strings.SplitN(payload, common.PayloadDelimiter, n)
	if len(parts) != n {
		return nil, fmt.Errorf("%w: want %d fields, got %d", common.ErrMalformedPayload, n, len(parts))
	}
	return parts, nil
}

func EncodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeMessage(line []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", common.ErrMalformedMessage, err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", common.ErrMalformedMessage)
	}
	return m, nil
}

// EncodeSuccess encodes a success reply. A nil list is sent as [].
func EncodeSuccess(incidents []models.Incident) ([]byte, error) {
	if incidents == nil {
		incidents = []models.Incident{}
	}
	return json.Marshal(successReply{Type: TypeSuccess, Payload: incidents})
}

func EncodeFail(msg string) ([]byte, error) {
	return json.Marshal(failReply{Type: TypeFail, Payload: msg})
}

func DecodeReply(line []byte) (Reply, error) {
	var r Reply
	if err := json.Unmarshal(line, &r); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", common.ErrMalformedMessage, err)
	}
	switch r.Type {
	case TypeSuccess, TypeFail:
		return r, nil
	default:
		return Reply{}, fmt.Errorf("%w: unexpected reply type %q", common.ErrMalformedMessage, r.Type)
	}
}

// Incidents decodes the payload of a success reply.
func (r Reply) Incidents() ([]models.Incident, error) {
	if r.Type != TypeSuccess {
		return nil, fmt.Errorf("%w: not a success reply", common.ErrMalformedMessage)
	}
	var out []models.Incident
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
		}
	}
	if out == nil {
		out = []models.Incident{}
	}
	return out, nil
}

// Failure returns the message of a fail reply.
func (r Reply) Failure() string {
	var msg string
	if err := json.Unmarshal(r.Payload, &msg); err != nil {
		return string(r.Payload)
	}
	return msg
}
