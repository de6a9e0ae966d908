package dispatch

import (
	"fmt"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
)

// SelectPartition maps an event id onto a partition of the application
// topic: (eventID - 1) mod partitionCount. Deterministic, so every
// message for a given event lands on the same partition and stays
// ordered there.
func SelectPartition(eventID int64, partitionCount int32) (int32, error) {
	if eventID <= 0 {
		return 0, fmt.Errorf("%w: %d", dom.ErrInvalidEventID, eventID)
	}
	if partitionCount <= 0 {
		return 0, fmt.Errorf("partition count must be positive, got %d", partitionCount)
	}
	return int32((eventID - 1) % int64(partitionCount)), nil
}
