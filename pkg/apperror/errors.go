// Package apperror collects sentinel errors shared by the service layer
// (internal/api, internal/ws, internal/service).
// internal/board keeps its own error kinds un-exported to this package: an
// abstract data type should not depend on a service-layer error taxonomy.
package apperror

import "errors"

var (
	ErrInvalidPlayerID  = errors.New("player id must be non-empty and match [A-Za-z0-9_]+")
	ErrBoardFileMissing = errors.New("board file path is empty")
)
