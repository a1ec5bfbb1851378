package view

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned when a load is requested before a data source
// has been bound. Configuration errors like this fail the operation
// immediately.
var ErrNoSource = errors.New("no data source bound")

// ErrStaleLoad marks the result of a load that was superseded by a newer
// one. Hosts drop these silently.
var ErrStaleLoad = errors.New("stale load result")

// DataSourceError wraps a fetch failure. The view keeps its prior data
// and stays interactive; the host reports the error to the user.
type DataSourceError struct {
	View string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: data source: %v", e.View, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
