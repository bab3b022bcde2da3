package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/infrastructure/persistence/mappers"
	"github.com/ibis1225/pet-ai/internal/infrastructure/persistence/models"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
	db "github.com/ibis1225/pet-ai/internal/shared/db"
)

// allowedConsultationOrderByFields is the ORDER BY whitelist for List.
var allowedConsultationOrderByFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"completed_at":  true,
	"ticket_number": true,
	"status":        true,
	"urgency":       true,
	"category":      true,
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in
// any supported dialect.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type ConsultationRepository struct {
	db     *gorm.DB
	mapper mappers.ConsultationMapper
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{
		db:     db,
		mapper: mappers.NewConsultationMapper(),
	}
}

// Create runs the insert in its own savepoint so a unique violation does
// not poison an enclosing PostgreSQL transaction.
func (r *ConsultationRepository) Create(ctx context.Context, c *consultation.Consultation) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

// Update writes every column, so cleared values such as the active key
// become NULL.
func (r *ConsultationRepository) Update(ctx context.Context, c *consultation.Consultation) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.ConsultationModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update consultation: %w", result.Error)
	}
	return nil
}

func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*consultation.Consultation, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *ConsultationRepository) GetByIDForUpdate(ctx context.Context, id string) (*consultation.Consultation, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *ConsultationRepository) GetByTicketNumber(ctx context.Context, number string) (*consultation.Consultation, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).Where("ticket_number = ?", number))
}

func (r *ConsultationRepository) GetActive(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).
		Where("active_key = ?", consultation.ActiveKeyFor(channel, channelUserID)))
}

// GetActiveForUpdate locks the row with SELECT ... FOR UPDATE. SQLite has
// no row locks; its single writer gives the same exclusion.
func (r *ConsultationRepository) GetActiveForUpdate(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error) {
	return r.first(ctx, db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("active_key = ?", consultation.ActiveKeyFor(channel, channelUserID)))
}

func (r *ConsultationRepository) first(_ context.Context, query *gorm.DB) (*consultation.Consultation, error) {
	var model models.ConsultationModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, consultation.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find consultation: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ConsultationRepository) ListByUser(ctx context.Context, channel, channelUserID string, limit int) ([]*consultation.Consultation, error) {
	if limit <= 0 || limit > constants.MaxHistoryLimit {
		limit = constants.DefaultHistoryLimit
	}

	var list []models.ConsultationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("channel = ? AND channel_user_id = ?", channel, channelUserID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user consultations: %w", err)
	}
	return r.mapper.ToDomainList(list)
}

func (r *ConsultationRepository) List(ctx context.Context, filter consultation.Filter) ([]*consultation.Consultation, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ConsultationModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Category != nil {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.Urgency != nil {
		query = query.Where("urgency = ?", filter.Urgency.String())
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(likeEscaper.Replace(search)) + "%"
		query = query.Where(
			"(LOWER(guardian_name) LIKE ? ESCAPE '!' OR LOWER(guardian_phone) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(ticket_number) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count consultations: %w", err)
	}

	orderBy := "created_at"
	if filter.SortBy != "" && allowedConsultationOrderByFields[filter.SortBy] {
		orderBy = filter.SortBy
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	var list []models.ConsultationModel
	err := query.
		Order(orderBy + " " + order).
		Order("id " + order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list consultations: %w", err)
	}

	result, err := r.mapper.ToDomainList(list)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

type groupCount struct {
	GroupKey string
	Total    int64
}

func (r *ConsultationRepository) Stats(ctx context.Context, todayStart, todayEnd time.Time) (*consultation.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	stats := &consultation.Stats{
		ByStatus:   make(map[vo.Status]int64),
		ByCategory: make(map[vo.Category]int64),
		ByUrgency:  make(map[vo.Urgency]int64),
	}

	if err := tx.Model(&models.ConsultationModel{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}

	err := tx.Model(&models.ConsultationModel{}).
		Where("created_at >= ? AND created_at < ?", todayStart.UnixMilli(), todayEnd.UnixMilli()).
		Count(&stats.Today).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count today's consultations: %w", err)
	}

	for column, assign := range map[string]func(groupCount){
		"status":   func(g groupCount) { stats.ByStatus[vo.Status(g.GroupKey)] = g.Total },
		"category": func(g groupCount) { stats.ByCategory[vo.Category(g.GroupKey)] = g.Total },
		"urgency":  func(g groupCount) { stats.ByUrgency[vo.Urgency(g.GroupKey)] = g.Total },
	} {
		var rows []groupCount
		err := tx.Model(&models.ConsultationModel{}).
			Select(column + " AS group_key, COUNT(*) AS total").
			Where(column + " <> ''").
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group consultations by %s: %w", column, err)
		}
		for _, g := range rows {
			assign(g)
		}
	}

	return stats, nil
}
