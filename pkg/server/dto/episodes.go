package dto

import (
	"errors"

	"github.com/soundprediction/grafity"
)

// Field limits to keep a single request from abusing the pipeline. Episode
// content feeds an LLM prompt, so the cap is deliberately conservative.
const (
	MaxNameLength    = 1024
	MaxContentLength = 1024 * 1024 // 1MB
	MaxEpisodeCount  = 1000
)

var (
	ErrNotAnArray      = errors.New("Expected a list of episodes")
	ErrTooManyEpisodes = errors.New("episodes count exceeds maximum (1000)")
	ErrNameTooLong     = errors.New("name exceeds maximum length (1024)")
	ErrContentTooLong  = errors.New("content exceeds maximum length (1MB)")
)

// EpisodeRequest is one episode in a POST /episodes batch or the body of
// POST /episode.
type EpisodeRequest struct {
	Name          string `json:"name"`
	Content       string `json:"content"`
	Description   string `json:"description,omitempty"`
	ReferenceTime string `json:"reference_time,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Validate rejects only request-level abuse; per-episode semantic validation
// (missing fields, bad timestamps) is the orchestrator's job so it can fail
// episodes individually.
func (r *EpisodeRequest) Validate() error {
	if len(r.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(r.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// ToRequest converts the DTO into the ingestion request type.
func (r *EpisodeRequest) ToRequest() grafity.EpisodeRequest {
	return grafity.EpisodeRequest{
		Name:          r.Name,
		Content:       r.Content,
		Description:   r.Description,
		ReferenceTime: r.ReferenceTime,
		Source:        r.Source,
	}
}

// EpisodeBatch is the body of POST /episodes.
type EpisodeBatch []EpisodeRequest

// Validate performs validation on the batch as a whole.
func (b EpisodeBatch) Validate() error {
	if len(b) > MaxEpisodeCount {
		return ErrTooManyEpisodes
	}
	for i := range b {
		if err := b[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToRequests converts the batch into ingestion request types.
func (b EpisodeBatch) ToRequests() []grafity.EpisodeRequest {
	out := make([]grafity.EpisodeRequest, 0, len(b))
	for i := range b {
		out = append(out, b[i].ToRequest())
	}
	return out
}
