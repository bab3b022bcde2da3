package consultation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

type mockNumberer struct {
	NextTicketNumberFunc func(ctx context.Context, now time.Time) (string, error)
	calls                int
}

func (m *mockNumberer) NextTicketNumber(ctx context.Context, now time.Time) (string, error) {
	m.calls++
	if m.NextTicketNumberFunc != nil {
		return m.NextTicketNumberFunc(ctx, now)
	}
	return FormatTicketNumber(now.Format("20060102"), int64(m.calls)), nil
}

var fixedNow = time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

func newTestEngine(numberer TicketNumberer) *FlowEngine {
	return NewFlowEngine(numberer).WithClock(func() time.Time { return fixedNow })
}

func newStartedConsultation(t *testing.T) *Consultation {
	t.Helper()
	c, err := NewConsultation("kakao", "user-1", fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	return c
}

// consultationAt builds an in-progress record parked at step with every
// earlier answer filled in.
func consultationAt(t *testing.T, step vo.Step, category vo.Category) *Consultation {
	t.Helper()
	c, err := ReconstructConsultation(ReconstructParams{
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
		Category:      category,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	})
	require.NoError(t, err)
	return c
}

func TestProcessStep_FullFlow(t *testing.T) {
	numberer := &mockNumberer{}
	engine := newTestEngine(numberer)
	c := newStartedConsultation(t)
	ctx := context.Background()

	inputs := []struct {
		input string
		next  vo.Step
	}{
		{"개인", vo.StepGuardianName},
		{"홍길동", vo.StepGuardianPhone},
		{"01012345678", vo.StepPetType},
		{"강아지", vo.StepPetName},
		{"초코", vo.StepPetAge},
		{"3살", vo.StepCategory},
		{"건강", vo.StepSubcategory},
		{"vaccination", vo.StepUrgency},
		{"보통", vo.StepDescription},
		{"예방접종 일정이 궁금합니다", vo.StepPreferredTime},
		{"오전", vo.StepCompleted},
	}

	for i, in := range inputs {
		res, err := engine.ProcessStep(ctx, c, in.input)
		require.NoError(t, err, "input %d", i)
		assert.False(t, res.Rejected, "input %q was rejected: %s", in.input, res.Message)
		assert.Equal(t, in.next, res.Step)
		assert.Equal(t, in.next, c.CurrentStep())
		assert.Equal(t, in.next == vo.StepCompleted, res.Completed)
		if in.next != vo.StepCompleted {
			assert.Equal(t, 0, numberer.calls, "number issued before the last step")
		}
	}

	assert.Equal(t, 1, numberer.calls)
	assert.Equal(t, vo.StatusPending, c.Status())
	assert.Equal(t, "C20260115-001", c.TicketNumber())
	assert.Regexp(t, TicketNumberPattern, c.TicketNumber())
	require.NotNil(t, c.CompletedAt())
	assert.Equal(t, fixedNow, *c.CompletedAt())
	assert.Empty(t, c.ActiveKey())

	assert.Equal(t, vo.MemberTypePersonal, c.MemberType())
	assert.Equal(t, "홍길동", c.GuardianName())
	assert.Equal(t, "010-1234-5678", c.GuardianPhone())
	assert.Equal(t, vo.PetTypeDog, c.PetType())
	assert.Equal(t, "초코", c.PetName())
	assert.Equal(t, "3살", c.PetAge())
	assert.Equal(t, vo.CategoryVeterinary, c.Category())
	assert.Equal(t, "vaccination", c.Subcategory())
	assert.Equal(t, vo.UrgencyNormal, c.Urgency())
	assert.Equal(t, "예방접종 일정이 궁금합니다", c.Description())
	assert.Equal(t, vo.PreferredTimeMorning, c.PreferredTime())
}

func TestProcessStep_CompletionMessage(t *testing.T) {
	engine := newTestEngine(&mockNumberer{})
	c := consultationAt(t, vo.StepPreferredTime, vo.CategoryGrooming)
	c.subcategory = "bath"
	c.urgency = vo.UrgencyUrgent
	c.description = "목욕 예약 문의드립니다"

	res, err := engine.ProcessStep(context.Background(), c, "상관없음")
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Contains(t, res.Message, "✅ 상담 신청이 완료되었습니다!")
	assert.Contains(t, res.Message, "C20260115-001")
	assert.Contains(t, res.Message, "미용/관리 > 목욕")
	assert.Contains(t, res.Message, "24시간 내")
}

func TestProcessStep_MixedLanguageAnswers(t *testing.T) {
	c := newStartedConsultation(t)
	engine := newTestEngine(&mockNumberer{})

	var res Result
	for _, in := range []string{
		"개인", "홍길동", "010-1234-5678", "dog", "콩이", "3살",
		"health", "illness", "긴급", "식욕이 없고 기운이 없어요", "morning",
	} {
		var err error
		res, err = engine.ProcessStep(context.Background(), c, in)
		require.NoError(t, err)
		require.False(t, res.Rejected, "input %q was rejected: %s", in, res.Message)
	}

	assert.True(t, res.Completed)
	assert.Equal(t, vo.StepCompleted, c.CurrentStep())
	assert.Equal(t, vo.StatusPending, c.Status())
	assert.Regexp(t, `^C\d{8}-\d{3}$`, c.TicketNumber())
	assert.Equal(t, vo.CategoryVeterinary, c.Category())
	assert.Equal(t, vo.UrgencyUrgent, c.Urgency())
	assert.Equal(t, vo.PreferredTimeMorning, c.PreferredTime())
}

func TestProcessStep_AnswerLength(t *testing.T) {
	tests := []struct {
		name         string
		step         vo.Step
		input        string
		wantRejected bool
		wantMessage  string
		stored       func(c *Consultation) string
		wantStored   string
	}{
		{
			name:       "name at limit",
			step:       vo.StepGuardianName,
			input:      strings.Repeat("가", 100),
			stored:     (*Consultation).GuardianName,
			wantStored: strings.Repeat("가", 100),
		},
		{
			name:         "name over limit",
			step:         vo.StepGuardianName,
			input:        strings.Repeat("가", 101),
			wantRejected: true,
			wantMessage:  "이름은 100자 이내로 입력해주세요.",
		},
		{
			name:         "pet name over limit",
			step:         vo.StepPetName,
			input:        strings.Repeat("a", 101),
			wantRejected: true,
			wantMessage:  "반려동물 이름은 100자 이내로 입력해주세요.",
		},
		{
			name:         "description over limit",
			step:         vo.StepDescription,
			input:        strings.Repeat("아파요", 700),
			wantRejected: true,
			wantMessage:  "상담 내용은 2000자 이내로 작성해주세요.",
		},
		{
			name:       "pet age cut on rune boundary",
			step:       vo.StepPetAge,
			input:      strings.Repeat("세", 80),
			stored:     (*Consultation).PetAge,
			wantStored: strings.Repeat("세", 50),
		},
		{
			name:       "preferred time cut on rune boundary",
			step:       vo.StepPreferredTime,
			input:      strings.Repeat("평일저녁", 30),
			stored:     (*Consultation).PreferredTime,
			wantStored: strings.Repeat("평일저녁", 25),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := consultationAt(t, tt.step, vo.CategoryGrooming)
			c.subcategory = "bath"
			c.urgency = vo.UrgencyNormal
			c.description = "목욕 예약 문의드립니다"
			before := *c

			res, err := newTestEngine(&mockNumberer{}).ProcessStep(context.Background(), c, tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRejected, res.Rejected)
			if tt.wantRejected {
				assert.Equal(t, tt.wantMessage, res.Message)
				assert.Equal(t, before, *c)
				return
			}
			got := tt.stored(c)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, tt.wantStored, got)
		})
	}
}

func TestProcessStep_RejectionLeavesRecordUntouched(t *testing.T) {
	tests := []struct {
		name    string
		step    vo.Step
		input   string
		message string
	}{
		{"member type", vo.StepMemberType, "몰라요", "개인 회원 또는 기업/단체 회원을 선택해주세요."},
		{"single rune name", vo.StepGuardianName, "홍", "올바른 이름을 입력해주세요."},
		{"blank name", vo.StepGuardianName, "   ", "올바른 이름을 입력해주세요."},
		{"short phone", vo.StepGuardianPhone, "12345", "올바른 전화번호를 입력해주세요. (예: 010-1234-5678)"},
		{"non 010 mobile", vo.StepGuardianPhone, "011-1234-5678", "올바른 전화번호를 입력해주세요. (예: 010-1234-5678)"},
		{"pet type", vo.StepPetType, "앵무새", "강아지, 고양이, 또는 기타를 선택해주세요."},
		{"pet name", vo.StepPetName, "", "반려동물 이름을 입력해주세요."},
		{"category", vo.StepCategory, "날씨", "상담 분야를 선택해주세요."},
		{"urgency", vo.StepUrgency, "빨리", "긴급도를 선택해주세요."},
		{"short description", vo.StepDescription, "아파요", "상담 내용을 10자 이상 자세히 작성해주세요."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			numberer := &mockNumberer{}
			c := consultationAt(t, tc.step, vo.CategoryVeterinary)
			before := *c

			res, err := newTestEngine(numberer).ProcessStep(context.Background(), c, tc.input)
			require.NoError(t, err)

			assert.True(t, res.Rejected)
			assert.False(t, res.Completed)
			assert.Equal(t, tc.step, res.Step)
			assert.Equal(t, tc.message, res.Message)
			assert.Equal(t, before, *c)
			assert.Zero(t, numberer.calls)
		})
	}
}

func TestProcessStep_SubcategoryRejectionListsOptions(t *testing.T) {
	c := consultationAt(t, vo.StepSubcategory, vo.CategoryHotel)

	res, err := newTestEngine(nil).ProcessStep(context.Background(), c, "수영")
	require.NoError(t, err)

	assert.True(t, res.Rejected)
	assert.Contains(t, res.Message, "세부 상담 항목을 선택해주세요.")
	assert.Contains(t, res.Message, "• 단기 숙박")
	assert.Contains(t, res.Message, "• 방문 펫시팅")
}

func TestProcessStep_SubcategoryByKeyOrLabel(t *testing.T) {
	for _, input := range []string{"separation_anxiety", "분리불안", " 분리불안 "} {
		t.Run(input, func(t *testing.T) {
			c := consultationAt(t, vo.StepSubcategory, vo.CategoryBehavior)

			res, err := newTestEngine(nil).ProcessStep(context.Background(), c, input)
			require.NoError(t, err)

			assert.False(t, res.Rejected)
			assert.Equal(t, vo.StepUrgency, res.Step)
			assert.Equal(t, "separation_anxiety", c.Subcategory())
		})
	}
}

func TestProcessStep_SubcategoryWithoutCategory(t *testing.T) {
	c := consultationAt(t, vo.StepSubcategory, "")

	_, err := newTestEngine(nil).ProcessStep(context.Background(), c, "checkup")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateCorruption)
	assert.Equal(t, vo.StepSubcategory, c.CurrentStep())
}

func TestProcessStep_CategoryKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  vo.Category
	}{
		{"veterinary", vo.CategoryVeterinary},
		{"응급 건강 문제", vo.CategoryEmergency},
		{"사료 상담", vo.CategoryNutrition},
		{"강아지 유치원", vo.CategoryDaycare},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			c := consultationAt(t, vo.StepCategory, "")

			res, err := newTestEngine(nil).ProcessStep(context.Background(), c, tc.input)
			require.NoError(t, err)

			assert.Equal(t, vo.StepSubcategory, res.Step)
			assert.Equal(t, tc.want, c.Category())
			assert.Contains(t, res.Message, vo.SubcategoriesFor(tc.want)[0].Label)
		})
	}
}

func TestProcessStep_DescriptionPromptDependsOnCategory(t *testing.T) {
	prompt := func(category vo.Category, urgency string) string {
		c := consultationAt(t, vo.StepUrgency, category)
		c.subcategory = vo.SubcategoriesFor(category)[0].Key
		res, err := newTestEngine(nil).ProcessStep(context.Background(), c, urgency)
		require.NoError(t, err)
		require.Equal(t, vo.StepDescription, res.Step)
		return res.Message
	}

	emergency := prompt(vo.CategoryEmergency, "긴급")
	generic := prompt(vo.CategoryDaycare, "보통")

	assert.NotEqual(t, emergency, generic)
	assert.Contains(t, emergency, "🚨")
	assert.Equal(t, genericDescriptionPrompt, generic)
}

func TestProcessStep_NormalizesInput(t *testing.T) {
	c := consultationAt(t, vo.StepGuardianPhone, "")

	res, err := newTestEngine(nil).ProcessStep(context.Background(), c, "  ０１０－９８７６－５４３２ ")
	require.NoError(t, err)

	assert.False(t, res.Rejected)
	assert.Equal(t, "010-9876-5432", c.GuardianPhone())
}

func TestProcessStep_StripsMarkupFromFreeText(t *testing.T) {
	c := consultationAt(t, vo.StepPetName, "")

	_, err := newTestEngine(nil).ProcessStep(context.Background(), c, "<b>초코</b>")
	require.NoError(t, err)

	assert.Equal(t, "초코", c.PetName())
}

func TestProcessStep_PreferredTimeKeepsFreeText(t *testing.T) {
	c := consultationAt(t, vo.StepPreferredTime, vo.CategoryOther)

	res, err := newTestEngine(&mockNumberer{}).ProcessStep(context.Background(), c, "평일 저녁 7시 이후")
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, "평일 저녁 7시 이후", c.PreferredTime())
}

func TestProcessStep_NumberingFailureLeavesRecordUntouched(t *testing.T) {
	numberer := &mockNumberer{
		NextTicketNumberFunc: func(ctx context.Context, now time.Time) (string, error) {
			return "", errors.New("counter unavailable")
		},
	}
	c := consultationAt(t, vo.StepPreferredTime, vo.CategoryVeterinary)
	before := *c

	_, err := newTestEngine(numberer).ProcessStep(context.Background(), c, "오후")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counter unavailable")

	assert.Equal(t, before, *c)
	assert.Equal(t, vo.StatusInProgress, c.Status())
	assert.Empty(t, c.TicketNumber())
	assert.Nil(t, c.CompletedAt())
}

func TestProcessStep_UnknownStep(t *testing.T) {
	for _, step := range []vo.Step{"favorite_color", vo.StepCompleted, ""} {
		t.Run(string(step), func(t *testing.T) {
			c := consultationAt(t, step, "")

			_, err := newTestEngine(nil).ProcessStep(context.Background(), c, "anything")
			assert.ErrorIs(t, err, ErrStateCorruption)
		})
	}
}

func TestProcessStep_NotInProgress(t *testing.T) {
	c := consultationAt(t, vo.StepPetName, "")
	require.NoError(t, c.Cancel(fixedNow))
	before := *c

	_, err := newTestEngine(nil).ProcessStep(context.Background(), c, "뭉치")
	assert.ErrorIs(t, err, ErrNotInProgress)
	assert.Equal(t, before, *c)
}

func TestPromptFor(t *testing.T) {
	c := newStartedConsultation(t)
	assert.Contains(t, PromptFor(c), "회원 유형을 선택해주세요.")

	c = consultationAt(t, vo.StepSubcategory, vo.CategoryInsurance)
	assert.Contains(t, PromptFor(c), "• 보험금 청구")
}

func TestOptions(t *testing.T) {
	assert.Len(t, Options(newStartedConsultation(t)), 2)
	assert.Len(t, Options(consultationAt(t, vo.StepCategory, "")), len(vo.AllCategories))
	assert.Len(t, Options(consultationAt(t, vo.StepSubcategory, vo.CategoryDaycare)), 3)
	assert.Nil(t, Options(consultationAt(t, vo.StepDescription, vo.CategoryDaycare)))
}
