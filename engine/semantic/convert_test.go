package semantic

import (
	"reflect"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	in := map[string]any{
		"text":     "wat arun at sunset",
		"source":   "youtube",
		"video_id": "abc123",
		"views":    int64(42),
		"rating":   4.5,
		"verified": true,
	}

	got := DecodePayload(EncodePayload(in))
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, in)
	}
}

func TestEncodePayload_IntWidening(t *testing.T) {
	enc := EncodePayload(map[string]any{"n": 7})
	if enc["n"].GetIntegerValue() != 7 {
		t.Fatalf("int not encoded as integer value: %v", enc["n"])
	}
}

func TestEncodePayload_StringSlice(t *testing.T) {
	enc := EncodePayload(map[string]any{"tags": []string{"food", "temples"}})
	vals := enc["tags"].GetListValue().GetValues()
	if len(vals) != 2 || vals[0].GetStringValue() != "food" {
		t.Fatalf("string slice not encoded as list: %v", enc["tags"])
	}
}

func TestEncodePayload_FallbackString(t *testing.T) {
	type odd struct{ A int }
	enc := EncodePayload(map[string]any{"x": odd{A: 1}})
	if enc["x"].GetStringValue() == "" {
		t.Fatal("unsupported type should fall back to string")
	}
}

func TestSearchResultText(t *testing.T) {
	r := SearchResult{Payload: map[string]any{"text": "hello"}}
	if r.Text() != "hello" {
		t.Fatalf("Text() = %q", r.Text())
	}
	empty := SearchResult{Payload: map[string]any{"other": 1}}
	if empty.Text() != "" {
		t.Fatal("missing text should be empty")
	}
}
