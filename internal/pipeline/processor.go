package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/docread"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
	"github.com/joseph-ayodele/findoc-reader/internal/extract"
	"github.com/joseph-ayodele/findoc-reader/internal/linescan"
	"github.com/joseph-ayodele/findoc-reader/internal/mapper"
	"github.com/joseph-ayodele/findoc-reader/internal/metrics"
	"github.com/joseph-ayodele/findoc-reader/internal/schema"
)

// Processor routes an input to the document or chat stage, validates the
// result set against its schema and records the outcome.
type Processor struct {
	Logger   *slog.Logger
	Document *DocumentStage
	Chat     *ChatStage
	Metrics  *metrics.Metrics

	docSchema  *schema.Validator
	chatSchema *schema.Validator
}

// Result is the outcome of one processed input.
type Result struct {
	File      string           `json:"file"`
	Format    constants.Format `json:"format,omitempty"`
	Status    constants.Status `json:"status"`
	RequestID string           `json:"request_id,omitempty"`
	Fields    *entity.FieldSet `json:"fields,omitempty"`
	Error     string           `json:"error,omitempty"`
	Elapsed   time.Duration    `json:"-"`
	Err       error            `json:"-"`
}

func NewProcessor(logger *slog.Logger, doc *DocumentStage, chat *ChatStage, m *metrics.Metrics) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	docSchema, err := schema.Compile("document", doc.Extractor.Fields())
	if err != nil {
		return nil, fmt.Errorf("document schema: %w", err)
	}
	chatSchema, err := schema.Compile("chat", chat.Mapper.Fields())
	if err != nil {
		return nil, fmt.Errorf("chat schema: %w", err)
	}
	return &Processor{
		Logger:     logger,
		Document:   doc,
		Chat:       chat,
		Metrics:    m,
		docSchema:  docSchema,
		chatSchema: chatSchema,
	}, nil
}

// Options selects the stock stage implementations.
type Options struct {
	// SplitParties resolves Party A and Party B separately and reports both
	// in Counterparty.
	SplitParties bool
	Metrics      *metrics.Metrics
}

// New wires the docx/xlsx reader, line-scan extractor and span mapper around
// the given label source.
func New(logger *slog.Logger, labels extract.LabelSource, opts Options) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	table := linescan.DefaultTable()
	if opts.SplitParties {
		table = linescan.PartiesTable()
	}
	doc := NewDocumentStage(logger, docread.NewReader(logger), linescan.NewExtractor(table, logger))
	chat := NewChatStage(logger, labels, mapper.New(logger))
	return NewProcessor(logger, doc, chat, opts.Metrics)
}

// DocumentFields lists the keys of every document result.
func (p *Processor) DocumentFields() []constants.Field { return p.Document.Extractor.Fields() }

// ChatFields lists the keys of every chat result.
func (p *Processor) ChatFields() []constants.Field { return p.Chat.Mapper.Fields() }

// ProcessDocument extracts the document fields from a .docx/.xlsx payload.
func (p *Processor) ProcessDocument(ctx context.Context, name string, data []byte) (*entity.FieldSet, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()

	fs, err := p.Document.Run(ctx, name, data)
	if err == nil {
		err = p.docSchema.Validate(fs)
	}
	return p.finish(constants.DOCUMENT, reqID, name, start, fs, err)
}

// ProcessChat extracts the chat fields from raw text.
func (p *Processor) ProcessChat(ctx context.Context, name, text string) (*entity.FieldSet, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()

	fs, err := p.Chat.Run(ctx, text)
	if err == nil {
		err = p.chatSchema.Validate(fs)
	}
	return p.finish(constants.CHAT, reqID, name, start, fs, err)
}

// Process dispatches on the extension of name. Failures are reported in the
// result, never returned.
func (p *Processor) Process(ctx context.Context, name string, data []byte) Result {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()
	res := Result{File: name, RequestID: reqID}

	var (
		fs  *entity.FieldSet
		err error
	)
	ext := filepath.Ext(name)
	res.Format = constants.MapExtToFormat(ext)
	switch res.Format {
	case constants.DOCUMENT:
		fs, err = p.ProcessDocument(ctx, name, data)
	case constants.CHAT:
		if err = common.ValidateChatText(data); err == nil {
			fs, err = p.ProcessChat(ctx, name, string(data))
		}
	default:
		err = common.UnsupportedFormatErrorf("unsupported file type %q", constants.NormalizeExt(ext))
	}

	res.Elapsed = time.Since(start)
	res.Fields = fs
	res.Status = statusOf(fs, err)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
	}
	return res
}

func (p *Processor) finish(format constants.Format, reqID, name string, start time.Time, fs *entity.FieldSet, err error) (*entity.FieldSet, error) {
	elapsed := time.Since(start)
	status := statusOf(fs, err)
	p.Metrics.Observe(format, status, elapsed, fs)

	if err != nil {
		p.Logger.Error("processor.failed",
			"request_id", reqID,
			"format", format,
			"file", name,
			"err", err,
		)
		return nil, err
	}
	p.Logger.Info("processor.ok",
		"request_id", reqID,
		"format", format,
		"file", name,
		"status", status,
		"resolved", fs.Resolved(),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return fs, nil
}

func statusOf(fs *entity.FieldSet, err error) constants.Status {
	switch {
	case errors.Is(err, common.ErrUnsupportedFormat):
		return constants.StatusUnsupported
	case err != nil:
		return constants.StatusFailed
	case fs == nil || fs.Resolved() == 0:
		return constants.StatusEmpty
	default:
		return constants.StatusOK
	}
}
