// Package services – KudosService
//
// KudosService is the orchestration entry point invoked once per submitted
// recognition. It validates the input, composes the message, builds the
// record, persists it to the configured target and returns the outputs in the
// configured shape. The call is not idempotent: submitting the same input
// twice records two recognitions.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-kudos-backend/internal/config"
	"github.com/tbourn/go-kudos-backend/internal/domain"
	"github.com/tbourn/go-kudos-backend/internal/observability"
)

// Input is one recognition as submitted by the host.
type Input struct {
	Message      string
	User         string
	Receiver     string
	KudoValue    string
	PrivateScope *bool
}

// Outputs carries the messages for delivery. Which message fields are set
// depends on the output mode; TransactionID is always set.
type Outputs struct {
	TransactionID  string `json:"transaction_id"`
	PublicMessage  string `json:"public_message,omitempty"`
	PrivateMessage string `json:"private_message,omitempty"`
	UpdatedMsg     string `json:"updatedMsg,omitempty"`
	NKudoMessage   string `json:"nKudoMessage,omitempty"`
}

// ObjectWriter persists the legacy per-transaction record.
type ObjectWriter interface {
	PutObject(ctx context.Context, rec *domain.ObjectRecord) error
}

// KudosService processes recognitions.
type KudosService struct {
	Composer   Composer
	Records    RecordBuilder
	Aggregates *AggregateUpdater
	Objects    ObjectWriter

	OutputMode string // config.OutputSplit | OutputUpdated | OutputNKudo
	Target     string // config.TargetUsers | TargetObjects
}

// NewKudosService wires a KudosService from the kudos settings.
func NewKudosService(users UserStore, objects ObjectWriter, cfg config.KudosConfig) *KudosService {
	return &KudosService{
		Composer: Composer{Mode: cfg.VisibilityMode},
		Aggregates: &AggregateUpdater{
			Store:        users,
			RewardPoints: cfg.RewardPoints,
			Optimistic:   cfg.ConcurrencyMode == config.ConcurrencyOptimistic,
		},
		Objects:    objects,
		OutputMode: cfg.OutputMode,
		Target:     cfg.PersistenceTarget,
	}
}

func validate(in Input) error {
	switch {
	case strings.TrimSpace(in.Message) == "":
		return ErrMissingMessage
	case strings.TrimSpace(in.User) == "":
		return ErrMissingUser
	case strings.TrimSpace(in.Receiver) == "":
		return ErrMissingReceiver
	case strings.TrimSpace(in.KudoValue) == "":
		return ErrMissingCategory
	}
	return nil
}

// Submit processes one recognition. Errors are ErrInvalidInput (wrapped),
// ErrComposition (wrapped) or the persistence error as returned by the store.
func (s *KudosService) Submit(ctx context.Context, in Input) (Outputs, error) {
	ctx, span := observability.Tracer("services/kudos").Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("user.id", in.User),
			attribute.String("receiver.id", in.Receiver),
			attribute.String("kudos.target", s.Target),
		),
	)
	defer span.End()

	if err := validate(in); err != nil {
		return Outputs{}, err
	}
	sender := strings.TrimSpace(in.User)
	receiver := strings.TrimSpace(in.Receiver)
	private := in.PrivateScope != nil && *in.PrivateScope

	msgs, err := s.Composer.Compose(sender, receiver, in.KudoValue, in.Message, private)
	if err != nil {
		return Outputs{}, err
	}
	rec := s.Records.Build(sender, msgs.Category, in.Message)
	span.SetAttributes(attribute.String("transaction.id", rec.TransactionID))

	if err := s.persist(ctx, receiver, rec, msgs); err != nil {
		span.RecordError(err)
		return Outputs{}, err
	}

	observability.RecognitionsTotal.WithLabelValues(msgs.Category.Name, s.target()).Inc()
	zerolog.Ctx(ctx).Debug().
		Str("transaction_id", rec.TransactionID).
		Str("receiver", receiver).
		Bool("private", private).
		Str("message", msgs.Primary).
		Msg("nkudo processed")

	return s.shape(rec.TransactionID, msgs), nil
}

func (s *KudosService) target() string {
	if s.Target == config.TargetObjects {
		return config.TargetObjects
	}
	return config.TargetUsers
}

func (s *KudosService) persist(ctx context.Context, receiver string, rec Record, msgs Messages) error {
	if s.target() == config.TargetObjects {
		now := time.Now
		if s.Records.Now != nil {
			now = s.Records.Now
		}
		return s.Objects.PutObject(ctx, &domain.ObjectRecord{
			ObjectID:    rec.TransactionID,
			OriginalMsg: rec.Entry.Message,
			UpdatedMsg:  msgs.Primary,
			CreatedAt:   now().UTC(),
		})
	}

	if _, err := s.Aggregates.Apply(ctx, receiver, rec.Entry); err != nil {
		return err
	}
	observability.PointsAwardedTotal.Add(float64(s.Aggregates.reward()))
	return nil
}

func (s *KudosService) shape(txID string, msgs Messages) Outputs {
	out := Outputs{TransactionID: txID}
	switch s.OutputMode {
	case config.OutputUpdated:
		out.UpdatedMsg = msgs.Public()
	case config.OutputNKudo:
		out.NKudoMessage = msgs.Public()
	default:
		out.PublicMessage = msgs.Public()
		out.PrivateMessage = msgs.Primary
	}
	return out
}
