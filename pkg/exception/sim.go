package exception

import "github.com/yanun0323/errors"

var (
	ErrSimInvalidParams = errors.New("sim: invalid params")
	ErrSimNilStrategy   = errors.New("sim: nil strategy")
)
