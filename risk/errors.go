package risk

import "github.com/m-mizutani/goerr/v2"

var (
	ErrUnknownValue = goerr.New("unknown enumeration value")
	ErrInvalidRules = goerr.New("invalid risk rules")
)
