package ports

import (
	"context"

	"AplusBackend/internal/domain"
)

// Recognizer turns document bytes into text through an external OCR service.
type Recognizer interface {
	Recognize(ctx context.Context, filename string, data []byte) (string, error)
}

// ArtifactStore persists extracted text. It never fails loudly: an empty ref means not stored.
type ArtifactStore interface {
	Store(ctx context.Context, key, content string) domain.ArtifactRef
}

// ObjectPutter uploads raw objects and returns their public URL.
type ObjectPutter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// UploadStager keeps a local copy of an upload under a collision-resistant name.
type UploadStager interface {
	Save(name string, data []byte) (string, error)
}

// FileWriter writes a file under an exact name inside its root directory.
type FileWriter interface {
	Write(name string, data []byte) (string, error)
}

// DocumentInspector reads structural metadata from document bytes.
type DocumentInspector interface {
	PageCount(data []byte) (int, error)
}

// StudyPlanRepository persists study plans.
type StudyPlanRepository interface {
	Create(ctx context.Context, draft domain.StudyPlanDraft) (domain.StudyPlan, error)
	List(ctx context.Context) ([]domain.StudyPlan, error)
}

// MaterialRepository records extracted materials per plan.
type MaterialRepository interface {
	SaveMaterial(ctx context.Context, material domain.Material) error
}

// ImageGenerator asks the diffusion backend for a PNG.
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.ImageRequest) ([]byte, error)
}
