// Package stats implements the data sources behind the dashboard views.
// Each source turns server statistics into a column-addressable grid the
// filter engine and grid view can work with.
package stats

import (
	"fmt"
	"strconv"
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// cellString renders a database value for grid display. NULL becomes the
// empty string so text filters treat it as absent.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(timeFormat)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', 2, 32)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// seconds renders a duration as a whole-second cell value
func seconds(d time.Duration) string {
	return strconv.FormatInt(int64(d.Seconds()), 10)
}
