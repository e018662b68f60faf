package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/metrics"
)

type Service interface {
	Generate(ctx context.Context, accountID uuid.UUID, features string) (string, error)
}

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type quotaGate interface {
	Authorize(ctx context.Context, accountID uuid.UUID) error
	Commit(ctx context.Context, accountID uuid.UUID) error
}

type service struct {
	sanitizer *Sanitizer
	templates *TemplateStore
	generator textGenerator
	quota     quotaGate
}

type ServiceParams struct {
	Sanitizer *Sanitizer
	Templates *TemplateStore
	Generator textGenerator
	Quota     quotaGate
}

func NewService(params ServiceParams) (Service, error) {
	if params.Sanitizer == nil {
		return nil, fmt.Errorf("sanitizer is required")
	}
	if params.Templates == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if params.Quota == nil {
		return nil, fmt.Errorf("quota service is required")
	}
	return &service{
		sanitizer: params.Sanitizer,
		templates: params.Templates,
		generator: params.Generator,
		quota:     params.Quota,
	}, nil
}

// Generate runs the full pipeline: quota authorization, input sanitization,
// template substitution, the upstream call, and finally the quota commit.
// Quota is consumed only when the upstream call returned text.
func (s *service) Generate(ctx context.Context, accountID uuid.UUID, features string) (string, error) {
	if accountID == uuid.Nil {
		return "", errors.New(errors.CodeUnauthorized, "account is required")
	}

	if err := s.quota.Authorize(ctx, accountID); err != nil {
		metrics.GenerationsTotal.WithLabelValues("denied").Inc()
		return "", err
	}

	cleaned, err := s.sanitizer.Sanitize(features)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	prompt, err := s.templates.Render(cleaned)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	start := time.Now()
	text, err := s.generator.GenerateText(ctx, prompt)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	if err := s.quota.Commit(ctx, accountID); err != nil {
		// the text was generated but a concurrent request consumed the
		// last slot; the caller is told the quota is exhausted
		metrics.GenerationsTotal.WithLabelValues("denied").Inc()
		return "", err
	}

	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	return text, nil
}
