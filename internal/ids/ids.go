package ids

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

// New returns a sortable unique id for persisted entities.
func New() string {
	return ksuid.New().String()
}

// OrderNo returns a human-facing order number, date-prefixed for support staff.
func OrderNo(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("20060102"), ksuid.New().String()[:12])
}
