package model

import "github.com/m-mizutani/goerr/v2"

// ErrBriefNotFound is returned when a brief does not exist or belongs to a
// different session. The two cases are indistinguishable on purpose so that
// existence of another session's data never leaks.
var ErrBriefNotFound = goerr.New("brief not found")
