package driven

import "context"

// CreatorPayload is the envelope returned by the partner creator API.
// Code 0 means success.
type CreatorPayload struct {
	Code      int
	Message   string
	RequestID string
	Data      map[string]any
}

// CreatorSource fetches creator statistics from the partner API.
type CreatorSource interface {
	FetchCreator(ctx context.Context, handle string) (*CreatorPayload, error)
}
