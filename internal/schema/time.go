package schema

import (
	"encoding/json"
	"time"

	"adminapi/internal/timeutil"
)

// LocalTime renders as a datetime string in the application timezone.
type LocalTime time.Time

func NewLocalTime(t time.Time) LocalTime { return LocalTime(t) }

// LocalTimePtr returns nil for a nil t.
func LocalTimePtr(t *time.Time) *LocalTime {
	if t == nil {
		return nil
	}
	lt := LocalTime(*t)
	return &lt
}

func (t LocalTime) Time() time.Time { return time.Time(t) }

func (t LocalTime) String() string {
	return timeutil.Default.Format(time.Time(t))
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := timeutil.Default.Parse(s)
	if err != nil {
		return err
	}
	*t = LocalTime(parsed)
	return nil
}

// Equal reports whether both values are the same instant.
func (t LocalTime) Equal(o LocalTime) bool {
	return time.Time(t).Equal(time.Time(o))
}
