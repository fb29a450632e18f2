package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/findoc-reader/internal/entity"
	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

// ChatStage labels chat text and maps the spans onto financial fields.
type ChatStage struct {
	Logger *slog.Logger
	Labels extract.LabelSource
	Mapper extract.SpanMapper
}

func NewChatStage(logger *slog.Logger, labels extract.LabelSource, m extract.SpanMapper) *ChatStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatStage{Logger: logger, Labels: labels, Mapper: m}
}

func (s *ChatStage) Run(ctx context.Context, text string) (*entity.FieldSet, error) {
	labels, err := s.Labels.Label(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("label spans: %w", err)
	}
	s.Logger.Debug("processor.chat.labels", "labels", len(labels))
	return s.Mapper.Map(text, labels), nil
}
