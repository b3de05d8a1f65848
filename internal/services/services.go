// Package services provides typed wrappers over the wardrobe backend's
// REST surface.
//
// Each service owns one endpoint family and speaks through the shared
// api.Client, so auth and error classification behave identically across
// the whole surface.
package services

import (
	"net/url"
	"strconv"
	"time"
)

// Page bounds a list request. Zero values mean the backend defaults.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) query() string {
	if p.Skip == 0 && p.Limit == 0 {
		return ""
	}

	values := url.Values{}
	values.Set("skip", strconv.Itoa(p.Skip))
	values.Set("limit", strconv.Itoa(p.Limit))

	return "?" + values.Encode()
}

// timestamp tolerates both RFC 3339 and bare ISO timestamps, which the
// backend mixes depending on whether the column carries a timezone.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" || raw == `""` || len(raw) < 2 {
		t.Time = time.Time{}
		return nil
	}

	raw = raw[1 : len(raw)-1]
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	// An unparseable timestamp should not sink the whole payload.
	t.Time = time.Time{}
	return nil
}
