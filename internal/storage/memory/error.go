package memory

import "errors"

var (
	ErrTransactionIDNotFoundInCtx = errors.New("no transaction id found in ctx")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrUnknownPackage             = errors.New("package not found")
	ErrUnknownOption              = errors.New("catalog option not found")
)
