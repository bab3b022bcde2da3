package http

import (
	"time"

	"github.com/ibis1225/pet-ai/internal/application/consultation/usecases"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/infrastructure/cache"
	"github.com/ibis1225/pet-ai/internal/infrastructure/email"
	"github.com/ibis1225/pet-ai/internal/infrastructure/services"
	"github.com/ibis1225/pet-ai/internal/shared/db"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

const defaultDedupTTL = 10 * time.Minute

type allUseCases struct {
	dispatcher *usecases.Dispatcher
	list       *usecases.ListConsultationsUseCase
	get        *usecases.GetConsultationUseCase
	update     *usecases.UpdateConsultationUseCase
	stats      *usecases.GetStatsUseCase
	history    *usecases.GetUserHistoryUseCase
}

func (c *Container) initUseCases() {
	txm := db.NewTransactionManager(c.db)
	repo := c.repos.consultationRepo

	numberer := services.NewTicketNumberService(c.repos.counterStore, services.TicketNumberOptions{
		MaxRetries:        c.cfg.Counter.MaxRetries,
		RetryBase:         time.Duration(c.cfg.Counter.RetryBaseMillis) * time.Millisecond,
		SharesTransaction: c.repos.counterSharesTx,
	}, logger.NewComponentLogger("ticket-number"))
	engine := consultation.NewFlowEngine(numberer)

	dispatcher := usecases.NewDispatcher(repo, engine, txm, usecases.DispatcherOptions{}, logger.NewComponentLogger("dispatcher"))
	if c.redis != nil {
		ttl := time.Duration(c.cfg.Webhook.DedupTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = defaultDedupTTL
		}
		dispatcher.WithDeduplicator(cache.NewDeliveryDeduplicator(c.redis, ttl))
	}
	dispatcher.WithNotifier(email.NewConsultationNotifier(c.cfg.Notification, logger.NewComponentLogger("notifier")))

	c.ucs = &allUseCases{
		dispatcher: dispatcher,
		list:       usecases.NewListConsultationsUseCase(repo, c.log),
		get:        usecases.NewGetConsultationUseCase(repo, c.log),
		update:     usecases.NewUpdateConsultationUseCase(repo, txm, c.log),
		stats:      usecases.NewGetStatsUseCase(repo, c.log),
		history:    usecases.NewGetUserHistoryUseCase(repo, c.log),
	}
}
