package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"AplusBackend/internal/domain"
	"AplusBackend/internal/extraction"
	"AplusBackend/internal/ports"
)

const defaultWorkers = 4

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Strategies *extraction.Registry
	Artifacts  ports.ArtifactStore
	Stager     ports.UploadStager
	Inspector  ports.DocumentInspector
	Materials  ports.MaterialRepository
	Logger     *slog.Logger
	Workers    int
}

// Pipeline implements the multi-source ingestion workflow.
type Pipeline struct {
	strategies *extraction.Registry
	artifacts  ports.ArtifactStore
	stager     ports.UploadStager
	inspector  ports.DocumentInspector
	materials  ports.MaterialRepository
	logger     *slog.Logger
	workers    int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	strategies := deps.Strategies
	if strategies == nil {
		strategies = extraction.NewRegistry()
	}
	return &Pipeline{
		strategies: strategies,
		artifacts:  deps.Artifacts,
		stager:     deps.Stager,
		inspector:  deps.Inspector,
		materials:  deps.Materials,
		logger:     logger.With("component", "pipeline"),
		workers:    workers,
	}
}

type workItem struct {
	kind   domain.SourceKind
	source domain.Source
	label  string
	file   *domain.FileInfo
}

// Run extracts every link and accepted upload of req. Item failures are reported
// inside the result; only a staging fault aborts the whole request.
func (p *Pipeline) Run(ctx context.Context, req domain.IngestionRequest) (domain.AggregateResult, error) {
	// Client disconnects must not abort an accepted request half way.
	ctx = context.WithoutCancel(ctx)
	log := p.logger.With("plan_id", req.PlanID)

	links := ParseLinks(req.LinksJSON, log)

	var documents []workItem
	for _, upload := range req.Uploads {
		if !upload.IsDocument() {
			log.Info("skipping non-document upload", "file", upload.Filename, "content_type", upload.ContentType)
			continue
		}

		item, err := p.stage(upload)
		if err != nil {
			return domain.AggregateResult{}, err
		}
		documents = append(documents, item)
	}

	web := make([]workItem, len(links))
	for i, link := range links {
		web[i] = workItem{
			kind:   domain.KindWeb,
			source: domain.Source{Kind: domain.KindWeb, Name: link, URL: link},
			label:  link,
		}
	}

	urlResults := make([]domain.ItemResult, len(web))
	fileResults := make([]domain.ItemResult, len(documents))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range web {
		g.Go(func() error {
			urlResults[i] = p.process(ctx, log, req.PlanID, web[i])
			return nil
		})
	}
	for i := range documents {
		g.Go(func() error {
			fileResults[i] = p.process(ctx, log, req.PlanID, documents[i])
			return nil
		})
	}
	_ = g.Wait()

	return domain.AggregateResult{
		PlanID:      req.PlanID,
		Links:       links,
		URLResults:  urlResults,
		FileResults: fileResults,
		Status:      domain.StatusSuccess,
	}, nil
}

func (p *Pipeline) stage(upload domain.Upload) (workItem, error) {
	info := &domain.FileInfo{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Size:        int64(len(upload.Data)),
	}

	if p.stager != nil {
		path, err := p.stager.Save(upload.Filename, upload.Data)
		if err != nil {
			return workItem{}, fmt.Errorf("stage upload %s: %w", upload.Filename, err)
		}
		info.SavedPath = path
	}

	if p.inspector != nil {
		if pages, err := p.inspector.PageCount(upload.Data); err == nil {
			info.Pages = pages
		} else {
			p.logger.Debug("page count unavailable", "file", upload.Filename, "err", err)
		}
	}

	return workItem{
		kind: domain.KindDocument,
		source: domain.Source{
			Kind:        domain.KindDocument,
			Name:        upload.Filename,
			ContentType: upload.ContentType,
			Data:        upload.Data,
		},
		label: upload.Filename,
		file:  info,
	}, nil
}

func (p *Pipeline) process(ctx context.Context, log *slog.Logger, planID int64, item workItem) domain.ItemResult {
	res := domain.ItemResult{Source: item.label, Kind: item.kind, File: item.file}

	res.Outcome = p.extract(ctx, log, item)
	if !res.Outcome.OK() {
		log.Warn("item failed", "kind", item.kind, "source", item.label, "status", res.Outcome.Status, "reason", res.Outcome.Reason)
		return res
	}

	res.Artifact = p.persist(ctx, log, planID, item, res.Outcome.Text)
	return res
}

func (p *Pipeline) extract(ctx context.Context, log *slog.Logger, item workItem) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("extraction panicked", "kind", item.kind, "source", item.label, "panic", r)
			outcome = domain.Failed(fmt.Sprintf("internal error: %v", r))
		}
	}()

	strategy, err := p.strategies.Resolve(item.kind)
	if err != nil {
		return domain.Unavailable(err.Error())
	}

	log.Debug("dispatch item", "kind", item.kind, "source", item.label)
	return strategy.Extract(ctx, item.source)
}

// persist uploads the text and records the material. A panic here only drops
// the artifact reference; the extraction outcome stands.
func (p *Pipeline) persist(ctx context.Context, log *slog.Logger, planID int64, item workItem, text string) (ref domain.ArtifactRef) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("artifact persistence panicked", "kind", item.kind, "source", item.label, "panic", r)
			ref = domain.ArtifactRef{}
		}
	}()

	if p.artifacts != nil {
		key := ArtifactKey(planID, item.kind, item.label)
		ref = p.artifacts.Store(ctx, key, text)
		if ref.Stored() {
			log.Info("artifact stored", "kind", item.kind, "source", item.label, "url", ref.URL)
		}
	}

	if p.materials != nil {
		err := p.materials.SaveMaterial(ctx, domain.Material{
			PlanID:      planID,
			Kind:        item.kind,
			Source:      item.label,
			ArtifactURL: ref.URL,
			TextLength:  len(text),
		})
		if err != nil {
			log.Warn("record material", "source", item.label, "err", err)
		}
	}

	return ref
}
