package pipeline

import (
	"fmt"
	"time"

	"github.com/ivycast/curator/internal/catalog"
)

// assignStableIDs gives every channel lacking an ID (e.g. everything
// but TabularRepository's optional "id" column) a synthesized,
// run-stable identifier. OriginalIndex is also (re)assigned here to
// reflect final merged insertion order.
func assignStableIDs(channels []catalog.Channel, at time.Time) []catalog.Channel {
	ts := at.Unix()
	for i := range channels {
		channels[i].OriginalIndex = i
		if channels[i].ID == "" {
			channels[i].ID = fmt.Sprintf("channel_%d_%d", ts, i)
		}
	}
	return channels
}
