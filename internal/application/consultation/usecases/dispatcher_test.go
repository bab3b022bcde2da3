package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

var fixedNow = time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

// testStore backs a mock repository with the single record of one user.
// Like a real repository it hands out copies, so a rolled back unit of
// work leaves the stored record as it was.
type testStore struct {
	active  *consultation.Consultation
	creates int
	updates int
}

func (s *testStore) repository() *mockConsultationRepository {
	getActive := func(context.Context, string, string) (*consultation.Consultation, error) {
		if s.active == nil || !s.active.IsInProgress() {
			return nil, consultation.ErrNotFound
		}
		return cloneConsultation(s.active), nil
	}
	return &mockConsultationRepository{
		GetActiveFunc:          getActive,
		GetActiveForUpdateFunc: getActive,
		CreateFunc: func(_ context.Context, c *consultation.Consultation) error {
			s.creates++
			s.active = cloneConsultation(c)
			return nil
		},
		UpdateFunc: func(_ context.Context, c *consultation.Consultation) error {
			s.updates++
			s.active = cloneConsultation(c)
			return nil
		},
	}
}

func cloneConsultation(c *consultation.Consultation) *consultation.Consultation {
	var metadata map[string]any
	if c.Metadata() != nil {
		metadata = make(map[string]any, len(c.Metadata()))
		for k, v := range c.Metadata() {
			metadata[k] = v
		}
	}
	cp, err := consultation.ReconstructConsultation(consultation.ReconstructParams{
		ID:            c.ID(),
		TicketNumber:  c.TicketNumber(),
		Channel:       c.Channel(),
		ChannelUserID: c.ChannelUserID(),
		CurrentStep:   c.CurrentStep(),
		Status:        c.Status(),
		MemberType:    c.MemberType(),
		GuardianName:  c.GuardianName(),
		GuardianPhone: c.GuardianPhone(),
		PetType:       c.PetType(),
		PetName:       c.PetName(),
		PetAge:        c.PetAge(),
		Category:      c.Category(),
		Subcategory:   c.Subcategory(),
		Urgency:       c.Urgency(),
		Description:   c.Description(),
		PreferredTime: c.PreferredTime(),
		AssignedTo:    c.AssignedTo(),
		AdminNotes:    c.AdminNotes(),
		Metadata:      metadata,
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
		CompletedAt:   c.CompletedAt(),
	})
	if err != nil {
		panic(err)
	}
	return cp
}

func newTestDispatcher(repo consultation.Repository, numberer consultation.TicketNumberer) (*Dispatcher, *mockTxRunner) {
	if numberer == nil {
		numberer = &mockNumberer{}
	}
	engine := consultation.NewFlowEngine(numberer).WithClock(func() time.Time { return fixedNow })
	txm := &mockTxRunner{}
	d := NewDispatcher(repo, engine, txm, DispatcherOptions{MaxRetries: 2, RetryBase: time.Millisecond}, logger.NewNop())
	d.now = func() time.Time { return fixedNow }
	return d, txm
}

func consultationAt(t *testing.T, step vo.Step) *consultation.Consultation {
	t.Helper()
	c, err := consultation.ReconstructConsultation(consultation.ReconstructParams{
		ID:            "c-1",
		Channel:       "kakao",
		ChannelUserID: "user-1",
		CurrentStep:   step,
		Status:        vo.StatusInProgress,
		MemberType:    vo.MemberTypePersonal,
		GuardianName:  "홍길동",
		GuardianPhone: "010-1234-5678",
		PetType:       vo.PetTypeDog,
		PetName:       "초코",
		PetAge:        "3살",
		Category:      vo.CategoryVeterinary,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	})
	require.NoError(t, err)
	return c
}

func input(text string) ProcessInputCommand {
	return ProcessInputCommand{Channel: "kakao", ChannelUserID: "user-1", Text: text}
}

func TestDispatcher_FullFlow(t *testing.T) {
	store := &testStore{}
	d, _ := newTestDispatcher(store.repository(), nil)
	notifier := newMockNotifier()
	d.WithNotifier(notifier)
	ctx := context.Background()

	reply, err := d.ProcessInput(ctx, input("안녕하세요"))
	require.NoError(t, err)
	assert.True(t, reply.Started)
	assert.Equal(t, vo.StepMemberType.String(), reply.Step)
	assert.NotEmpty(t, reply.Options)
	assert.Equal(t, 1, store.creates)

	answers := []string{
		"개인", "김철수", "01012345678", "강아지", "초코", "3살",
		"건강", "예방접종", "보통", "최근 밥을 잘 안 먹고 기운이 없어요", "오후",
	}
	for i, a := range answers {
		reply, err = d.ProcessInput(ctx, input(a))
		require.NoError(t, err, "answer %d", i)
		require.False(t, reply.Rejected, "answer %q rejected: %s", a, reply.Message)
	}

	assert.True(t, reply.Completed)
	assert.Equal(t, "C20260115-001", reply.TicketNumber)
	assert.Equal(t, len(answers), store.updates)
	assert.Equal(t, vo.StatusPending, store.active.Status())

	select {
	case c := <-notifier.sent:
		assert.Equal(t, "C20260115-001", c.TicketNumber())
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestDispatcher_ProcessInput_RejectionDoesNotPersist(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepGuardianPhone)}
	d, _ := newTestDispatcher(store.repository(), nil)

	reply, err := d.ProcessInput(context.Background(), input("전화번호 없음"))
	require.NoError(t, err)
	assert.True(t, reply.Rejected)
	assert.Equal(t, vo.StepGuardianPhone.String(), reply.Step)
	assert.Equal(t, 0, store.updates)
}

func TestDispatcher_ProcessInput_CancelKeywords(t *testing.T) {
	for _, keyword := range []string{"취소", "CANCEL", " 중단 ", "그만"} {
		t.Run(keyword, func(t *testing.T) {
			store := &testStore{active: consultationAt(t, vo.StepPetName)}
			d, _ := newTestDispatcher(store.repository(), nil)

			reply, err := d.ProcessInput(context.Background(), input(keyword))
			require.NoError(t, err)
			assert.True(t, reply.Cancelled)
			assert.Equal(t, vo.StatusCancelled, store.active.Status())
			assert.Equal(t, "", store.active.ActiveKey())
		})
	}
}

func TestDispatcher_ProcessInput_CancelWithoutActive(t *testing.T) {
	store := &testStore{}
	d, _ := newTestDispatcher(store.repository(), nil)

	reply, err := d.ProcessInput(context.Background(), input("취소"))
	require.NoError(t, err)
	assert.False(t, reply.Cancelled)
	assert.Equal(t, noActiveMessage, reply.Message)
	assert.Equal(t, 0, store.creates)
}

func TestDispatcher_ProcessInput_CancelKeywordInsideSentence(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepDescription)}
	d, _ := newTestDispatcher(store.repository(), nil)

	reply, err := d.ProcessInput(context.Background(), input("예약을 취소하고 싶은데 방법을 알려주세요"))
	require.NoError(t, err)
	assert.False(t, reply.Cancelled)
	assert.Equal(t, vo.StepPreferredTime.String(), reply.Step)
}

func TestDispatcher_ProcessInput_DuplicateDelivery(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepPetName)}
	d, _ := newTestDispatcher(store.repository(), nil)
	seen := map[string]bool{}
	d.WithDeduplicator(&mockDeduplicator{
		MarkIfFirstFunc: func(_ context.Context, id string) (bool, error) {
			first := !seen[id]
			seen[id] = true
			return first, nil
		},
	})

	cmd := input("초코")
	cmd.DeliveryID = "evt-1"

	first, err := d.ProcessInput(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := d.ProcessInput(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, "evt-1", store.active.Metadata()[metadataDeliveryID])
}

func TestDispatcher_ProcessInput_DedupUnavailable(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepPetName)}
	d, _ := newTestDispatcher(store.repository(), nil)
	d.WithDeduplicator(&mockDeduplicator{
		MarkIfFirstFunc: func(context.Context, string) (bool, error) {
			return false, stderrors.New("redis: connection refused")
		},
	})

	cmd := input("초코")
	cmd.DeliveryID = "evt-1"
	reply, err := d.ProcessInput(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, reply.Duplicate)
	assert.Equal(t, 1, store.updates)
}

func TestDispatcher_ProcessInput_FailureForgetsDelivery(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepPreferredTime)}
	numberer := &mockNumberer{
		NextTicketNumberFunc: func(context.Context, time.Time) (string, error) {
			return "", stderrors.New("counter unavailable")
		},
	}
	d, _ := newTestDispatcher(store.repository(), numberer)
	dedup := &mockDeduplicator{}
	d.WithDeduplicator(dedup)

	cmd := input("오전")
	cmd.DeliveryID = "evt-9"
	_, err := d.ProcessInput(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.IsAppError(err))
	assert.Equal(t, []string{"evt-9"}, dedup.forgotten)
	assert.Equal(t, vo.StepPreferredTime, store.active.CurrentStep())
}

func TestDispatcher_RetriesUnitOnLockConflict(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepPetName)}
	repo := store.repository()
	failures := 1
	update := repo.UpdateFunc
	repo.UpdateFunc = func(ctx context.Context, c *consultation.Consultation) error {
		if failures > 0 {
			failures--
			return stderrors.New("Error 1213: Deadlock found when trying to get lock")
		}
		return update(ctx, c)
	}
	d, txm := newTestDispatcher(repo, nil)

	reply, err := d.ProcessInput(context.Background(), input("초코"))
	require.NoError(t, err)
	assert.Equal(t, vo.StepPetAge.String(), reply.Step)
	assert.Equal(t, 2, txm.calls)
}

func TestDispatcher_GivesUpAfterRetries(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepPetName)}
	repo := store.repository()
	repo.UpdateFunc = func(context.Context, *consultation.Consultation) error {
		return stderrors.New("database is locked")
	}
	d, txm := newTestDispatcher(repo, nil)

	_, err := d.ProcessInput(context.Background(), input("초코"))
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUnavailable, appErr.Type)
	assert.Equal(t, 3, txm.calls)
}

func TestDispatcher_StateCorruption(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.Step("bogus"))}
	d, _ := newTestDispatcher(store.repository(), nil)

	_, err := d.ProcessInput(context.Background(), input("아무거나"))
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeInternal, appErr.Type)
}

func TestDispatcher_Start(t *testing.T) {
	t.Run("creates when none active", func(t *testing.T) {
		store := &testStore{}
		d, _ := newTestDispatcher(store.repository(), nil)

		reply, err := d.Start(context.Background(), StartCommand{Channel: "kakao", ChannelUserID: "user-1"})
		require.NoError(t, err)
		assert.True(t, reply.Started)
		assert.Contains(t, reply.Message, "회원 유형을 선택해주세요")
		assert.Equal(t, 1, store.creates)
	})

	t.Run("returns the active consultation", func(t *testing.T) {
		store := &testStore{active: consultationAt(t, vo.StepUrgency)}
		d, _ := newTestDispatcher(store.repository(), nil)

		reply, err := d.Start(context.Background(), StartCommand{Channel: "kakao", ChannelUserID: "user-1"})
		require.NoError(t, err)
		assert.False(t, reply.Started)
		assert.Equal(t, "c-1", reply.ConsultationID)
		assert.Equal(t, vo.StepUrgency.String(), reply.Step)
		assert.Equal(t, 0, store.creates)
	})

	t.Run("lost race is replayed", func(t *testing.T) {
		store := &testStore{}
		repo := store.repository()
		repo.CreateFunc = func(_ context.Context, c *consultation.Consultation) error {
			// a concurrent request inserted first
			store.active = consultationAt(t, vo.StepMemberType)
			return stderrors.New("UNIQUE constraint failed: consultations.active_key")
		}
		d, txm := newTestDispatcher(repo, nil)

		reply, err := d.Start(context.Background(), StartCommand{Channel: "kakao", ChannelUserID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, "c-1", reply.ConsultationID)
		assert.Equal(t, 2, txm.calls)
	})

	t.Run("validation", func(t *testing.T) {
		d, _ := newTestDispatcher(&mockConsultationRepository{}, nil)
		_, err := d.Start(context.Background(), StartCommand{Channel: "kakao"})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestDispatcher_Cancel(t *testing.T) {
	store := &testStore{active: consultationAt(t, vo.StepCategory)}
	d, _ := newTestDispatcher(store.repository(), nil)

	reply, err := d.Cancel(context.Background(), "kakao", "user-1")
	require.NoError(t, err)
	assert.True(t, reply.Cancelled)
	assert.Equal(t, vo.StatusCancelled, store.active.Status())

	_, err = d.Cancel(context.Background(), "kakao", "user-1")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDispatcher_FindActive(t *testing.T) {
	store := &testStore{}
	d, _ := newTestDispatcher(store.repository(), nil)

	active, err := d.FindActive(context.Background(), "kakao", "user-1")
	require.NoError(t, err)
	assert.False(t, active.IsActive)

	store.active = consultationAt(t, vo.StepCategory)
	active, err = d.FindActive(context.Background(), "kakao", "user-1")
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	assert.Equal(t, vo.StepCategory.String(), active.Step)
	assert.Equal(t, 7, active.StepPosition)
	assert.Equal(t, 11, active.TotalSteps)
}

func TestDispatcher_ProcessPostback(t *testing.T) {
	tests := []struct {
		name      string
		cmd       ProcessPostbackCommand
		wantStep  string
		wantError errors.ErrorType
	}{
		{
			name:     "step and value",
			cmd:      ProcessPostbackCommand{Step: "urgency", Value: "urgent"},
			wantStep: vo.StepDescription.String(),
		},
		{
			name:     "raw data",
			cmd:      ProcessPostbackCommand{Data: "action=consultation&step=urgency&value=normal"},
			wantStep: vo.StepDescription.String(),
		},
		{
			name:      "stale step",
			cmd:       ProcessPostbackCommand{Step: "pet_type", Value: "dog"},
			wantError: errors.ErrorTypeConflict,
		},
		{
			name:      "unknown step",
			cmd:       ProcessPostbackCommand{Step: "favorite_color", Value: "blue"},
			wantError: errors.ErrorTypeValidation,
		},
		{
			name:      "terminal step",
			cmd:       ProcessPostbackCommand{Step: "completed", Value: "x"},
			wantError: errors.ErrorTypeValidation,
		},
		{
			name:      "foreign action",
			cmd:       ProcessPostbackCommand{Data: "action=reservation&step=urgency&value=urgent"},
			wantError: errors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &testStore{active: consultationAt(t, vo.StepUrgency)}
			d, _ := newTestDispatcher(store.repository(), nil)

			cmd := tt.cmd
			cmd.Channel, cmd.ChannelUserID = "kakao", "user-1"
			reply, err := d.ProcessPostback(context.Background(), cmd)

			if tt.wantError != "" {
				require.Error(t, err)
				appErr := errors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantError, appErr.Type)
				assert.Equal(t, vo.StepUrgency, store.active.CurrentStep())
				assert.Equal(t, 0, store.updates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStep, reply.Step)
		})
	}
}

func TestDispatcher_ProcessPostback_NoActive(t *testing.T) {
	store := &testStore{}
	d, _ := newTestDispatcher(store.repository(), nil)

	_, err := d.ProcessPostback(context.Background(), ProcessPostbackCommand{
		Channel: "kakao", ChannelUserID: "user-1", Step: "urgency", Value: "urgent",
	})
	assert.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, 0, store.creates)
}

func TestParsePostbackData(t *testing.T) {
	p, err := ParsePostbackData("action=consultation&step=subcategory&value=%EC%98%88%EB%B0%A9%EC%A0%91%EC%A2%85")
	require.NoError(t, err)
	assert.Equal(t, "subcategory", p.Step)
	assert.Equal(t, "예방접종", p.Value)

	_, err = ParsePostbackData("action=consultation&value=x")
	assert.Error(t, err)

	_, err = ParsePostbackData("%zz")
	assert.Error(t, err)
}
