package ingest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"
)

// ObjectEvent is one typed notification about a raw object. Keys are
// URL-decoded at the boundary so downstream code never sees encoding.
type ObjectEvent struct {
	Bucket    string
	Key       string
	EventName string
	Size      int64
}

// IsCreation reports whether the event describes a newly created object.
func (e ObjectEvent) IsCreation() bool {
	return strings.HasPrefix(e.EventName, "s3:ObjectCreated:") ||
		strings.HasPrefix(e.EventName, "ObjectCreated:")
}

// s3Notification mirrors the S3 notification JSON payload. Only the fields
// the pipeline consumes are declared.
type s3Notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				Size int64  `json:"size"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// decodeKey undoes the URL encoding S3 applies to object keys in
// notifications (spaces arrive as '+').
func decodeKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}

// ParseEvents parses a raw S3-style notification body into typed events,
// preserving record order.
func ParseEvents(body []byte) ([]ObjectEvent, error) {
	var payload s3Notification
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse notification payload: %w", err)
	}

	events := make([]ObjectEvent, 0, len(payload.Records))
	for _, record := range payload.Records {
		events = append(events, ObjectEvent{
			Bucket:    record.S3.Bucket.Name,
			Key:       decodeKey(record.S3.Object.Key),
			EventName: record.EventName,
			Size:      record.S3.Object.Size,
		})
	}
	return events, nil
}

// EventsFromNotification converts a MinIO bucket-notification message into
// typed events.
func EventsFromNotification(info notification.Info) []ObjectEvent {
	events := make([]ObjectEvent, 0, len(info.Records))
	for _, record := range info.Records {
		events = append(events, ObjectEvent{
			Bucket:    record.S3.Bucket.Name,
			Key:       decodeKey(record.S3.Object.Key),
			EventName: record.EventName,
			Size:      record.S3.Object.Size,
		})
	}
	return events
}
