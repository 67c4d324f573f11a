package repository

import (
	"errors"
	"time"

	"github.com/okian/pennant/pkg/metrics"
)

// observe records latency for one operation and counts it as failed when
// *errp holds anything but ErrNotFound. Use with defer.
func observe(driver, operation string, start time.Time, errp *error) {
	metrics.RecordRepositoryLatency(driver, operation, float64(time.Since(start).Microseconds())/1000)
	if errp != nil && *errp != nil && !errors.Is(*errp, ErrNotFound) {
		metrics.RecordRepositoryError(driver, operation)
	}
}
