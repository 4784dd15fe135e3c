package exporter

import "fmt"

type ErrorKind string

const (
	ErrorKindNotFound ErrorKind = "NotFound"
	ErrorKindStore    ErrorKind = "Store"
	ErrorKindIO       ErrorKind = "IO"
	ErrorKindUpload   ErrorKind = "Upload"
)

type ExportError struct {
	Kind       ErrorKind
	ActivityID string
	Err        error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export of activity %s failed (%s): %s", e.ActivityID, e.Kind, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func newExportError(kind ErrorKind, activityID string, err error) *ExportError {
	return &ExportError{Kind: kind, ActivityID: activityID, Err: err}
}
