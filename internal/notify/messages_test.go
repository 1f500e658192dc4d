package notify

import (
	"testing"
	"time"
)

func TestDocumentChangedMessageRoundTrip(t *testing.T) {
	msg := NewDocumentChangedMessage("shared_expenses", 7)
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DocumentChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Key != "shared_expenses" || got.Version != 7 {
		t.Fatalf("round trip mismatch: %#v", got)
	}
	if got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Fatalf("timestamp drift: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestDocumentChangedMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := DocumentChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
