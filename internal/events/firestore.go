package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Firestore event types, as CloudEvents (Eventarc) and as legacy background
// function deliveries.
const (
	TypeDocumentCreated       = "google.cloud.firestore.document.v1.created"
	LegacyTypeDocumentCreated = "providers/cloud.firestore/eventType/document.create"
)

var (
	// ErrNoDocument is returned when an event carries no document.
	ErrNoDocument = errors.New("event has no document")
	// ErrNotCreated is returned for events other than document creation.
	ErrNotCreated = errors.New("event is not a document creation")
)

// DocumentEvent is a decoded Firestore document event together with the
// type it was delivered as. Type is empty when the delivery did not name one.
type DocumentEvent struct {
	Type string
	Data *firestoredata.DocumentEventData
}

// legacyEnvelope covers both the background-function body
// {"context":{...},"data":{...}} and a structured-mode CloudEvent
// {"specversion":...,"type":...,"data":{...}}.
type legacyEnvelope struct {
	Context *struct {
		EventType string `json:"eventType"`
	} `json:"context"`
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	DataBase64 []byte          `json:"data_base64"`
}

var unmarshalJSON = protojson.UnmarshalOptions{DiscardUnknown: true}

// DecodeRequest decodes the Firestore event carried by an HTTP delivery.
//
//   - application/protobuf: binary-mode CloudEvent, type in the Ce-Type header
//   - application/json with Ce-Type: binary-mode CloudEvent with a JSON payload
//   - application/json without Ce-Type: legacy {"context","data"} envelope
//   - application/cloudevents+json: structured-mode CloudEvent
func DecodeRequest(header http.Header, body []byte) (*DocumentEvent, error) {
	mediaType := "application/json"
	if ct := header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("content type %q: %w", ct, err)
		}
		mediaType = mt
	}

	ev := &DocumentEvent{Type: header.Get("Ce-Type"), Data: &firestoredata.DocumentEventData{}}

	switch {
	case mediaType == "application/protobuf" || mediaType == "application/x-protobuf":
		if err := proto.Unmarshal(body, ev.Data); err != nil {
			return nil, fmt.Errorf("decode protobuf event: %w", err)
		}
		return ev, nil

	case ev.Type != "" && mediaType == "application/json":
		if err := unmarshalJSON.Unmarshal(body, ev.Data); err != nil {
			return nil, fmt.Errorf("decode json event: %w", err)
		}
		return ev, nil

	case mediaType == "application/json" || mediaType == "application/cloudevents+json":
		var env legacyEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode event envelope: %w", err)
		}
		if env.Context != nil {
			ev.Type = env.Context.EventType
		} else {
			ev.Type = env.Type
		}
		switch {
		case len(env.DataBase64) > 0:
			if err := proto.Unmarshal(env.DataBase64, ev.Data); err != nil {
				return nil, fmt.Errorf("decode protobuf event: %w", err)
			}
		case len(env.Data) > 0 && string(env.Data) != "null":
			if err := unmarshalJSON.Unmarshal(env.Data, ev.Data); err != nil {
				return nil, fmt.Errorf("decode json event: %w", err)
			}
		default:
			return nil, ErrNoDocument
		}
		return ev, nil
	}

	return nil, fmt.Errorf("unsupported content type %q", mediaType)
}

// IsCreated reports whether t names a document-creation event. An empty type
// is accepted; the caller then relies on the previous document being absent.
func IsCreated(t string) bool {
	switch {
	case t == "":
		return true
	case strings.HasPrefix(t, TypeDocumentCreated):
		// also matches the ".withAuthContext" variant
		return true
	case strings.HasPrefix(t, "providers/"):
		return strings.HasSuffix(t, "/document.create") || strings.HasSuffix(t, "/create")
	}
	return t == "google.firestore.document.create"
}

// RelativePath strips the "projects/{p}/databases/{db}/documents/" prefix
// from a full document name.
func RelativePath(name string) string {
	const marker = "/documents/"
	if i := strings.Index(name, marker); i >= 0 {
		return name[i+len(marker):]
	}
	return strings.TrimPrefix(name, "/")
}

// ParseDocumentPath matches a document name against a pattern such as
// "community_posts/{postId}/comments/{commentId}" and returns the wildcard
// values.
func ParseDocumentPath(name, pattern string) (map[string]string, error) {
	segments := strings.Split(RelativePath(name), "/")
	parts := strings.Split(pattern, "/")
	if len(segments) != len(parts) {
		return nil, fmt.Errorf("document %q does not match %q", name, pattern)
	}

	params := make(map[string]string)
	for i, part := range parts {
		seg := segments[i]
		if seg == "" {
			return nil, fmt.Errorf("document %q has an empty segment", name)
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params[part[1:len(part)-1]] = seg
			continue
		}
		if part != seg {
			return nil, fmt.Errorf("document %q does not match %q", name, pattern)
		}
	}
	return params, nil
}
