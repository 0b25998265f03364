package exception

import "github.com/yanun0323/errors"

var (
	ErrSourceInvalidInterval = errors.New("source: invalid interval")
	ErrSourceInvalidRecord   = errors.New("source: invalid record")
	ErrSourceInvalidMonth    = errors.New("source: invalid month code")
	ErrSourceNilClient       = errors.New("source: nil client")
)
