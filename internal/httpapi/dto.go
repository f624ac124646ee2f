package httpapi

import (
	"time"

	"AplusBackend/internal/domain"
)

// LinkContent is the extraction outcome of one link.
type LinkContent struct {
	URL     string  `json:"url"`
	Status  string  `json:"status"`
	Content *string `json:"content,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// LinkArtifact is the stored text reference of one link; null when not stored.
type LinkArtifact struct {
	URL    string  `json:"url"`
	OSSURL *string `json:"oss_url"`
}

// FileDetails carries the staging diagnostics of one document.
type FileDetails struct {
	Filename    string `json:"filename"`
	SavedPath   string `json:"saved_path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Pages       int    `json:"pages"`
	OCRStatus   string `json:"ocr_status"`
	OCRError    string `json:"ocr_error,omitempty"`
}

// DocumentText is the extraction outcome of one document.
type DocumentText struct {
	Filename string  `json:"filename"`
	Status   string  `json:"status"`
	Text     *string `json:"text,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// DocumentArtifact is the stored text reference of one document.
type DocumentArtifact struct {
	Filename string  `json:"filename"`
	OSSURL   *string `json:"oss_url"`
}

// WorkflowData is the body of a successful /trigger-workflow call. Every slice
// is aligned with its input order.
type WorkflowData struct {
	PlanID       int64              `json:"plan_id"`
	Links        []string           `json:"links"`
	LinkContents []LinkContent      `json:"link_contents"`
	LinkOSSURLs  []LinkArtifact     `json:"link_oss_urls"`
	Files        []FileDetails      `json:"files"`
	PDFTexts     []DocumentText     `json:"pdf_texts"`
	PDFOSSURLs   []DocumentArtifact `json:"pdf_oss_urls"`
}

// NewWorkflowData flattens an aggregate result into the response layout.
func NewWorkflowData(res domain.AggregateResult) WorkflowData {
	data := WorkflowData{
		PlanID:       res.PlanID,
		Links:        res.Links,
		LinkContents: make([]LinkContent, 0, len(res.URLResults)),
		LinkOSSURLs:  make([]LinkArtifact, 0, len(res.URLResults)),
		Files:        make([]FileDetails, 0, len(res.FileResults)),
		PDFTexts:     make([]DocumentText, 0, len(res.FileResults)),
		PDFOSSURLs:   make([]DocumentArtifact, 0, len(res.FileResults)),
	}
	if data.Links == nil {
		data.Links = []string{}
	}

	for _, item := range res.URLResults {
		lc := LinkContent{URL: item.Source, Status: string(item.Outcome.Status)}
		if item.Outcome.OK() {
			lc.Content = textPtr(item.Outcome.Text)
		} else {
			lc.Error = item.Outcome.Reason
		}
		data.LinkContents = append(data.LinkContents, lc)
		data.LinkOSSURLs = append(data.LinkOSSURLs, LinkArtifact{URL: item.Source, OSSURL: refPtr(item.Artifact)})
	}

	for _, item := range res.FileResults {
		details := FileDetails{Filename: item.Source, OCRStatus: string(item.Outcome.Status)}
		if item.File != nil {
			details.SavedPath = item.File.SavedPath
			details.Size = item.File.Size
			details.ContentType = item.File.ContentType
			details.Pages = item.File.Pages
		}

		text := DocumentText{Filename: item.Source, Status: string(item.Outcome.Status)}
		if item.Outcome.OK() {
			text.Text = textPtr(item.Outcome.Text)
		} else {
			text.Error = item.Outcome.Reason
			details.OCRError = item.Outcome.Reason
		}

		data.Files = append(data.Files, details)
		data.PDFTexts = append(data.PDFTexts, text)
		data.PDFOSSURLs = append(data.PDFOSSURLs, DocumentArtifact{Filename: item.Source, OSSURL: refPtr(item.Artifact)})
	}

	return data
}

// PlanView is the wire form of a study plan.
type PlanView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"plan_name"`
	Description string    `json:"plan_description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newPlanView(plan domain.StudyPlan) PlanView {
	return PlanView{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		CreatedAt:   plan.CreatedAt,
	}
}

func textPtr(s string) *string {
	return &s
}

func refPtr(ref domain.ArtifactRef) *string {
	if !ref.Stored() {
		return nil
	}
	return textPtr(ref.URL)
}
