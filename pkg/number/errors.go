package number

import "errors"

var (
	ErrOverflow       = errors.New("number: overflow")
	ErrUnderflow      = errors.New("number: underflow")
	ErrDivisionByZero = errors.New("number: division by zero")
	ErrNegative       = errors.New("number: negative value")
)
