package domain

import "strings"

// SourceKind tells which extraction strategy handles an input item.
type SourceKind string

const (
	KindDocument SourceKind = "document"
	KindWeb      SourceKind = "web"
)

// DocumentContentType is the only upload media type the pipeline accepts.
const DocumentContentType = "application/pdf"

// Upload is a single file part received with an ingestion request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsDocument reports whether the upload is a PDF by declared type or filename suffix.
func (u Upload) IsDocument() bool {
	mediaType, _, _ := strings.Cut(u.ContentType, ";")
	if strings.EqualFold(strings.TrimSpace(mediaType), DocumentContentType) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(u.Filename), ".pdf")
}

// IngestionRequest is the raw input of one workflow trigger.
// PlanID is caller supplied and never checked against the database here.
type IngestionRequest struct {
	PlanID    int64
	LinksJSON string
	Uploads   []Upload
}

// Source is one item handed to an extraction strategy.
type Source struct {
	Kind        SourceKind
	Name        string
	URL         string
	ContentType string
	Data        []byte
}

// OutcomeStatus enumerates extraction results.
type OutcomeStatus string

const (
	OutcomeSuccess     OutcomeStatus = "success"
	OutcomeFailed      OutcomeStatus = "failed"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Outcome is the result of extracting one item. Unavailable is a failure caused by
// a collaborator that was never configured.
type Outcome struct {
	Status OutcomeStatus
	Text   string
	Reason string
}

func Succeeded(text string) Outcome {
	return Outcome{Status: OutcomeSuccess, Text: text}
}

func Failed(reason string) Outcome {
	return Outcome{Status: OutcomeFailed, Reason: reason}
}

func Unavailable(reason string) Outcome {
	return Outcome{Status: OutcomeUnavailable, Reason: reason}
}

// OK reports whether extraction completed, even with empty text.
func (o Outcome) OK() bool {
	return o.Status == OutcomeSuccess
}

// ArtifactRef points at persisted extracted text. An empty URL means nothing was stored.
type ArtifactRef struct {
	URL string
}

// Stored reports whether the artifact reached the remote store.
func (r ArtifactRef) Stored() bool {
	return r.URL != ""
}

// FileInfo carries diagnostics about a staged upload.
type FileInfo struct {
	Filename    string
	SavedPath   string
	ContentType string
	Size        int64
	Pages       int
}

// ItemResult is the per-item record of one ingestion run.
type ItemResult struct {
	Source   string
	Kind     SourceKind
	Outcome  Outcome
	Artifact ArtifactRef
	File     *FileInfo
}

// StatusSuccess is the only status a completed run reports; item failures live in the items.
const StatusSuccess = "success"

// AggregateResult summarizes all item outcomes of one request.
type AggregateResult struct {
	PlanID      int64
	Links       []string
	URLResults  []ItemResult
	FileResults []ItemResult
	Status      string
}

// Material is the database record of one successfully extracted item.
type Material struct {
	PlanID      int64
	Kind        SourceKind
	Source      string
	ArtifactURL string
	TextLength  int
}
