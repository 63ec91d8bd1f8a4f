package client

import (
	"errors"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// ServerError carries the message of a "fail" reply.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

func (e *ServerError) Is(target error) bool { return target == common.ErrRejected }
