package service

import (
	"errors"
	"io"
	"os"
)

var (
	// ErrDuplicates is returned when a list would publish two entries with the same symbol.
	ErrDuplicates = errors.New("duplicate symbols found")
	// ErrUnknownNetwork is returned for a network name that is not configured.
	ErrUnknownNetwork = errors.New("unknown network")
)

// chunked API calls print their "...N%" progress here
var progressWriter io.Writer = os.Stdout
