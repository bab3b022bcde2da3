package http

import (
	"context"
	"fmt"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/infrastructure/counter"
	"github.com/ibis1225/pet-ai/internal/infrastructure/repository"
	sharedConfig "github.com/ibis1225/pet-ai/internal/shared/config"
)

// repositories holds the storage adapters used by the use cases.
type repositories struct {
	consultationRepo consultation.Repository
	counterStore     consultation.CounterStore
	// counterSharesTx is true when counterStore writes through the
	// request transaction.
	counterSharesTx bool
}

func (c *Container) initRepositories(ctx context.Context) error {
	c.repos = &repositories{
		consultationRepo: repository.NewConsultationRepository(c.db),
	}

	switch c.cfg.Counter.Backend {
	case sharedConfig.CounterBackendDynamoDB:
		store, err := counter.NewDynamoCounterFromConfig(ctx, &c.cfg.Counter)
		if err != nil {
			return fmt.Errorf("failed to create dynamodb counter: %w", err)
		}
		c.repos.counterStore = store
		c.log.Infow("ticket counter backend selected", "backend", "dynamodb", "table", c.cfg.Counter.DynamoTable)
	default:
		c.repos.counterStore = repository.NewDailyCounterRepository(c.db)
		c.repos.counterSharesTx = true
		c.log.Infow("ticket counter backend selected", "backend", "database")
	}

	return nil
}
