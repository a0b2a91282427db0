package report

import "errors"

var ErrInvalidRange = errors.New("invalid report range")
