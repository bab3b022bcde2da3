package usecases

import (
	"context"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
)

// TransactionRunner is satisfied by *db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// FlowProcessor is satisfied by *consultation.FlowEngine.
type FlowProcessor interface {
	ProcessStep(ctx context.Context, c *consultation.Consultation, raw string) (consultation.Result, error)
}

// DeliveryDeduplicator drops webhook redeliveries.
type DeliveryDeduplicator interface {
	MarkIfFirst(ctx context.Context, deliveryID string) (bool, error)
	Forget(ctx context.Context, deliveryID string) error
}

// CompletionNotifier tells operators about a finished intake.
type CompletionNotifier interface {
	NotifySubmitted(ctx context.Context, c *consultation.Consultation) error
}

type ChatExecutor interface {
	FindActive(ctx context.Context, channel, channelUserID string) (*dto.ActiveDTO, error)
	Start(ctx context.Context, cmd StartCommand) (*dto.ReplyDTO, error)
	Cancel(ctx context.Context, channel, channelUserID string) (*dto.ReplyDTO, error)
	ProcessInput(ctx context.Context, cmd ProcessInputCommand) (*dto.ReplyDTO, error)
	ProcessPostback(ctx context.Context, cmd ProcessPostbackCommand) (*dto.ReplyDTO, error)
}

type ListConsultationsExecutor interface {
	Execute(ctx context.Context, query ListConsultationsQuery) (*ListConsultationsResult, error)
}

type GetConsultationExecutor interface {
	Execute(ctx context.Context, query GetConsultationQuery) (*dto.ConsultationDTO, error)
}

type UpdateConsultationExecutor interface {
	Execute(ctx context.Context, cmd UpdateConsultationCommand) (*dto.ConsultationDTO, error)
}

type GetStatsExecutor interface {
	Execute(ctx context.Context) (*dto.StatsDTO, error)
}

type GetUserHistoryExecutor interface {
	Execute(ctx context.Context, query GetUserHistoryQuery) ([]*dto.ConsultationDTO, error)
}
