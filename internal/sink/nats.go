package sink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/codedoc/internal/config"
	"git.home.luguber.info/inful/codedoc/internal/format"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
	"git.home.luguber.info/inful/codedoc/internal/retry"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Message is the JSON payload published for each page.
type Message struct {
	RunID            string            `json:"run_id,omitempty"`
	FilePath         string            `json:"file_path"`
	FileName         string            `json:"file_name"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Tags             []string          `json:"tags"`
	Format           format.Descriptor `json:"format"`
	IsValid          bool              `json:"is_valid"`
	ValidationErrors []string          `json:"validation_errors"`
	Statistics       map[string]any    `json:"statistics"`
	Frontmatter      map[string]any    `json:"frontmatter"`
	Fingerprint      string            `json:"fingerprint,omitempty"`
	Encoding         string            `json:"encoding"`
	Truncated        bool              `json:"truncated"`
	Output           string            `json:"output,omitempty"`
	Markdown         string            `json:"markdown"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// NewMessage builds the payload for p.
func NewMessage(p Page) Message {
	rec := p.Record
	errs := rec.Processed.ValidationErrors
	if errs == nil {
		errs = []string{}
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return Message{
		RunID:            p.RunID,
		FilePath:         rec.FilePath,
		FileName:         rec.FileName,
		Title:            rec.Title,
		Description:      rec.Description,
		Tags:             tags,
		Format:           rec.Format,
		IsValid:          rec.IsValid(),
		ValidationErrors: errs,
		Statistics:       rec.Processed.Statistics,
		Frontmatter:      rec.Frontmatter,
		Fingerprint:      rec.Fingerprint,
		Encoding:         rec.Decoded.Encoding,
		Truncated:        rec.Decoded.WasTruncated,
		Output:           p.Path,
		Markdown:         p.Markdown,
		GeneratedAt:      rec.GeneratedAt,
	}
}

// Publisher publishes pages as JSON messages to one NATS subject.
type Publisher struct {
	conn    Conn
	subject string
	timeout time.Duration
	policy  retry.Policy
	logger  *slog.Logger
}

// Connect dials the configured server.
func Connect(cfg config.PublishConfig, logger *slog.Logger) (*Publisher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultPublishTO
	}
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("codedoc"),
		nats.Timeout(timeout),
	)
	if err != nil {
		return nil, ferrors.PublishError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", cfg.NATSURL).
			Build()
	}
	p := NewPublisher(conn, cfg.Subject, timeout, retry.FromConfig(cfg.Retry), logger)
	p.logger.Info("NATS publisher connected", slog.String("url", cfg.NATSURL), logfields.Subject(cfg.Subject))
	return p, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string, timeout time.Duration, policy retry.Policy, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if subject == "" {
		subject = config.DefaultSubject
	}
	if timeout <= 0 {
		timeout = config.DefaultPublishTO
	}
	return &Publisher{conn: conn, subject: subject, timeout: timeout, policy: policy, logger: logger}
}

// Emit implements Sink. Each attempt publishes and waits for the server to
// acknowledge the flush; failed attempts are retried per the policy.
func (p *Publisher) Emit(ctx context.Context, page Page) error {
	data, err := json.Marshal(NewMessage(page))
	if err != nil {
		return ferrors.InternalError("failed to marshal record message").
			WithCause(err).
			WithContext("file", page.Record.FilePath).
			Build()
	}

	err = p.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			p.logger.Debug("Retrying publish", logfields.File(page.Record.FilePath), slog.Int("attempt", attempt))
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			return err
		}
		flushCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.conn.FlushWithContext(flushCtx)
	})
	if err != nil {
		return ferrors.PublishError("failed to publish record").
			WithCause(err).
			WithContext("file", page.Record.FilePath).
			WithContext("subject", p.subject).
			Build()
	}

	p.logger.Debug("Published record", logfields.File(page.Record.FilePath), logfields.Subject(p.subject), logfields.Size(int64(len(data))))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
