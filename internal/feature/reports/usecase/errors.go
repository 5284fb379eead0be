package usecase

import "errors"

// ErrReportNotFound is returned by a ReportRepository when no report has the given id.
var ErrReportNotFound = errors.New("report not found")
