package ingest

import "testing"

func TestIsCreation(t *testing.T) {
	tests := []struct {
		eventName string
		want      bool
	}{
		{"s3:ObjectCreated:Put", true},
		{"s3:ObjectCreated:CompleteMultipartUpload", true},
		{"ObjectCreated:Put", true},
		{"s3:ObjectRemoved:Delete", false},
		{"s3:ObjectAccessed:Get", false},
		{"", false},
	}

	for _, tt := range tests {
		event := ObjectEvent{EventName: tt.eventName}
		if got := event.IsCreation(); got != tt.want {
			t.Errorf("IsCreation(%q) = %v, want %v", tt.eventName, got, tt.want)
		}
	}
}

func TestParseEvents(t *testing.T) {
	body := []byte(`{
		"Records": [
			{
				"eventName": "s3:ObjectCreated:Put",
				"s3": {
					"bucket": {"name": "current-ingest"},
					"object": {"key": "raw/pink_floyd/wish_you_were_here/1700000000__wires.flac", "size": 2048}
				}
			},
			{
				"eventName": "s3:ObjectRemoved:Delete",
				"s3": {
					"bucket": {"name": "current-ingest"},
					"object": {"key": "raw/a/b/old.mp3", "size": 0}
				}
			}
		]
	}`)

	events, err := ParseEvents(body)
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	first := events[0]
	if first.Bucket != "current-ingest" {
		t.Errorf("bucket = %q", first.Bucket)
	}
	if first.Key != "raw/pink_floyd/wish_you_were_here/1700000000__wires.flac" {
		t.Errorf("key = %q", first.Key)
	}
	if first.Size != 2048 {
		t.Errorf("size = %d", first.Size)
	}
	if !first.IsCreation() {
		t.Error("first record should be a creation")
	}
	if events[1].IsCreation() {
		t.Error("second record should not be a creation")
	}
}

func TestParseEventsDecodesKeys(t *testing.T) {
	body := []byte(`{
		"Records": [
			{
				"eventName": "s3:ObjectCreated:Put",
				"s3": {
					"bucket": {"name": "current-ingest"},
					"object": {"key": "raw/pink_floyd/the_wall/1700000000__comfortably+numb+%28live%29.flac", "size": 1}
				}
			}
		]
	}`)

	events, err := ParseEvents(body)
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	want := "raw/pink_floyd/the_wall/1700000000__comfortably numb (live).flac"
	if events[0].Key != want {
		t.Errorf("key = %q, want %q", events[0].Key, want)
	}
}

func TestParseEventsRejectsMalformedBody(t *testing.T) {
	if _, err := ParseEvents([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
