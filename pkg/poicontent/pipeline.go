package poicontent

import (
	"context"
	"log/slog"
)

// The request pipeline wires the guard, the lifecycle controller and the like
// aggregator into each operation as an ordered sequence of named stages
// (pre-validate, pre-authorize, mutate, post-enrich). Stages are plain
// functions over an OpContext; the first error aborts the remaining chain.
// Pipelines are registered once at service construction.

// OpContext carries a single request through an operation pipeline.
type OpContext struct {
	Context  context.Context
	Creds    Credentials
	Identity *Identity

	// Operation input, one of which is set depending on the pipeline.
	Create *CreateContentRequest
	Update *UpdateContentRequest
	Like   *RecordLikeRequest
	List   *ListContentRequest

	// ContentID is the target row for modify/delete.
	ContentID int64

	// Operation output.
	Content *Content
	Page    *ContentPage

	// pendingFile is the bound file scheduled for removal after the row
	// delete is confirmed. It travels with the request instead of living in
	// process-wide state so concurrent deletes cannot race.
	pendingFile string
}

// Stage is one named step of an operation pipeline.
type Stage struct {
	Name string
	Run  func(*OpContext) error
}

// Pipeline is a typed, ordered sequence of stages for one operation.
type Pipeline struct {
	op     string
	stages []Stage
}

// NewPipeline registers a pipeline for the named operation.
func NewPipeline(op string, stages ...Stage) *Pipeline {
	return &Pipeline{op: op, stages: stages}
}

// Run executes the stages in order, aborting on the first error.
func (p *Pipeline) Run(octx *OpContext) error {
	for _, st := range p.stages {
		if err := st.Run(octx); err != nil {
			slog.Debug("pipeline stage failed", "op", p.op, "stage", st.Name, "err", err)
			return err
		}
	}
	return nil
}
