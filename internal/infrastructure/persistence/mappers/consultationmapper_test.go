package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

func TestConsultationMapper_InProgressRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 15, 3, 4, 5, 0, time.UTC)
	c, err := consultation.NewConsultation("kakao", "u-1", now)
	require.NoError(t, err)
	c.SetMetadata("delivery_id", "d-1")

	m := NewConsultationMapper()
	model := m.ToModel(c)

	require.NotNil(t, model.ActiveKey)
	assert.Equal(t, "kakao:u-1", *model.ActiveKey)
	assert.Nil(t, model.TicketNumber)
	assert.Nil(t, model.CompletedAt)
	assert.Equal(t, now.UnixMilli(), model.CreatedAt)
	assert.Equal(t, "d-1", model.Metadata["delivery_id"])

	back, err := m.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), back.ID())
	assert.Equal(t, vo.StepMemberType, back.CurrentStep())
	assert.Equal(t, vo.StatusInProgress, back.Status())
	assert.Equal(t, now, back.CreatedAt())
	assert.Equal(t, "d-1", back.Metadata()["delivery_id"])
}

func TestConsultationMapper_CompletedRecord(t *testing.T) {
	now := time.Date(2026, 1, 15, 3, 4, 5, 0, time.UTC)
	c, err := consultation.ReconstructConsultation(consultation.ReconstructParams{
		ID:            "c-1",
		TicketNumber:  "C20260115-007",
		Channel:       "kakao",
		ChannelUserID: "u-1",
		CurrentStep:   vo.StepCompleted,
		Status:        vo.StatusPending,
		Category:      vo.CategoryGrooming,
		Subcategory:   "bath",
		CreatedAt:     now,
		UpdatedAt:     now,
		CompletedAt:   &now,
	})
	require.NoError(t, err)

	m := NewConsultationMapper()
	model := m.ToModel(c)

	assert.Nil(t, model.ActiveKey)
	require.NotNil(t, model.TicketNumber)
	assert.Equal(t, "C20260115-007", *model.TicketNumber)
	require.NotNil(t, model.CompletedAt)
	assert.Nil(t, model.Metadata)

	back, err := m.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, "C20260115-007", back.TicketNumber())
	require.NotNil(t, back.CompletedAt())
	assert.True(t, now.Equal(*back.CompletedAt()))
	assert.Equal(t, "bath", back.Subcategory())
}

func TestConsultationMapper_InvalidStatus(t *testing.T) {
	m := NewConsultationMapper()
	model := m.ToModel(mustConsultation(t))
	model.Status = "archived"

	_, err := m.ToDomain(model)
	require.Error(t, err)
}

func mustConsultation(t *testing.T) *consultation.Consultation {
	t.Helper()
	c, err := consultation.NewConsultation("line", "u-2", time.Now())
	require.NoError(t, err)
	return c
}
