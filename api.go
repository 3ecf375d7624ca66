package surveygate

import (
	"context"
	"io"

	"github.com/jmfield/surveygate/campaign"
	"github.com/jmfield/surveygate/promptval"
)

// Engine validates survey response uploads against one campaign
// configuration. Build it once per configuration; Validate is stateless
// per call and safe for concurrent use.
type Engine struct {
	cfg *campaign.Configuration
	reg *promptval.Registry
}

// New builds an Engine for the configuration. It fails when a prompt of
// the configuration has no value validator, which is a configuration
// defect rather than an upload problem.
func New(cfg *campaign.Configuration) (*Engine, error) {
	reg, err := promptval.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, reg: reg}, nil
}

// Validate checks one uploaded survey response document. Malformed or
// inconsistent uploads come back as a rejected Result; the error return
// is reserved for caller bugs and context cancellation.
func (e *Engine) Validate(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return rejectedf("", CodeParseError, "upload is not valid JSON: %v", err), nil
	}
	return e.walk(ctx, doc)
}

// ValidateReader is Validate for streaming sources.
func (e *Engine) ValidateReader(ctx context.Context, r io.Reader) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	doc, err := decodeFrom(r)
	if err != nil {
		return rejectedf("", CodeParseError, "upload is not valid JSON: %v", err), nil
	}
	return e.walk(ctx, doc)
}

// Validate is a one-shot convenience that builds an Engine and validates
// a single upload. Callers handling many uploads against the same
// configuration should build the Engine once instead.
func Validate(ctx context.Context, cfg *campaign.Configuration, data []byte) (Result, error) {
	e, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return e.Validate(ctx, data)
}
