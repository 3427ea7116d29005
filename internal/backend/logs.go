package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// LogRecord is one backend log line attached to an instance.
type LogRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Level      string    `json:"level"`
	InstanceID string    `json:"instance_id"`
	Message    string    `json:"message"`
}

// LogQuery narrows the log listing. Zero values mean no filter.
type LogQuery struct {
	InstanceID string
	Level      string
	Since      time.Time
	Limit      int
}

// GetLogs fetches backend logs matching the query, newest first.
func (c *Client) GetLogs(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	vals := url.Values{}
	if q.InstanceID != "" {
		vals.Set("instance_id", q.InstanceID)
	}
	if q.Level != "" {
		vals.Set("level", q.Level)
	}
	if !q.Since.IsZero() {
		vals.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/api/logs"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}

	var data struct {
		Logs []LogRecord `json:"logs"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Logs, nil
}
