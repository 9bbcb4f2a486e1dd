package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a date field of the intake form. It decodes from an RFC 3339
// timestamp, a "2006-01-02" date or epoch milliseconds, and encodes as
// RFC 3339. The zero Date is stored and encoded as null.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewDate returns a pointer to a Date holding t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: want yyyy-MM-dd, RFC 3339 or epoch milliseconds", s)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if !strings.HasPrefix(raw, `"`) {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("date %s: want yyyy-MM-dd, RFC 3339 or epoch milliseconds", raw)
		}
		d.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s = strings.TrimSpace(s); s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d.Time.MarshalJSON()
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = v
	case string:
		t, err := parseDate(v)
		if err != nil {
			return err
		}
		d.Time = t
	case []byte:
		t, err := parseDate(string(v))
		if err != nil {
			return err
		}
		d.Time = t
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}

// GormDataType stores dates in the dialect's timestamp column type.
func (Date) GormDataType() string {
	return "time"
}
