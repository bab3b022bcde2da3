package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/textnorm"
)

const (
	minNameRunes        = 2
	minDescriptionRunes = 10
)

// maxAnswerRunes follows the column sizes of the stored answers.
var maxAnswerRunes = map[vo.Step]int{
	vo.StepGuardianName:  100,
	vo.StepPetName:       100,
	vo.StepPetAge:        50,
	vo.StepDescription:   2000,
	vo.StepPreferredTime: 100,
}

// truncatedSteps accept any answer, so an oversized one is cut instead of
// rejected.
var truncatedSteps = map[vo.Step]bool{
	vo.StepPetAge:        true,
	vo.StepPreferredTime: true,
}

// TicketNumberer issues the next ticket number for the day of now.
type TicketNumberer interface {
	NextTicketNumber(ctx context.Context, now time.Time) (string, error)
}

// Result is the outcome of one guardian input.
type Result struct {
	// Step is the record's step after the input was handled.
	Step      vo.Step
	Message   string
	Completed bool
	// Rejected is true when the input failed validation; the record was
	// not modified and Message explains what is expected.
	Rejected bool
}

// FlowEngine validates one answer at a time and advances the record.
type FlowEngine struct {
	numberer TicketNumberer
	now      func() time.Time
}

func NewFlowEngine(numberer TicketNumberer) *FlowEngine {
	return &FlowEngine{
		numberer: numberer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the engine clock.
func (e *FlowEngine) WithClock(now func() time.Time) *FlowEngine {
	e.now = now
	return e
}

// answer applies a validated value to the record.
type answer func(c *Consultation)

// ProcessStep handles raw input for the record's current step. Invalid
// input leaves the record untouched and returns a rejected Result with no
// error. On the last step a ticket number is issued before anything is
// written, so a numbering failure also leaves the record untouched.
func (e *FlowEngine) ProcessStep(ctx context.Context, c *Consultation, raw string) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("consultation is required")
	}
	if !c.status.IsInProgress() {
		return Result{Step: c.currentStep}, fmt.Errorf("%w: status is %s", ErrNotInProgress, c.status)
	}

	step := c.currentStep
	next, ok := step.Next()
	if !ok {
		return Result{Step: step}, fmt.Errorf("%w: unexpected step %q", ErrStateCorruption, step)
	}

	input, fits := fitLength(step, textnorm.Clean(raw))
	if !fits {
		return Result{Step: step, Message: tooLongMessage(step), Rejected: true}, nil
	}

	apply, err := e.validate(c, step, input)
	if err != nil {
		return Result{Step: step}, err
	}
	if apply == nil {
		return Result{Step: step, Message: rejectionMessage(c, step), Rejected: true}, nil
	}

	now := e.now()
	var ticketNumber string
	if next == vo.StepCompleted {
		if e.numberer == nil {
			return Result{Step: step}, fmt.Errorf("ticket numberer is not configured")
		}
		ticketNumber, err = e.numberer.NextTicketNumber(ctx, now)
		if err != nil {
			return Result{Step: step}, fmt.Errorf("failed to issue ticket number: %w", err)
		}
	}

	apply(c)
	c.currentStep = next
	c.updatedAt = now
	if next == vo.StepCompleted {
		c.status = vo.StatusPending
		c.ticketNumber = ticketNumber
		completedAt := now
		c.completedAt = &completedAt
	}

	return Result{
		Step:      next,
		Message:   promptForStep(c, next),
		Completed: next == vo.StepCompleted,
	}, nil
}

// fitLength reports whether input is short enough for step, cutting it on a
// rune boundary for steps that never reject.
func fitLength(step vo.Step, input string) (string, bool) {
	limit, ok := maxAnswerRunes[step]
	if !ok || utf8.RuneCountInString(input) <= limit {
		return input, true
	}
	if !truncatedSteps[step] {
		return input, false
	}
	return strings.TrimSpace(string([]rune(input)[:limit])), true
}

// validate returns nil, nil for a rejected value.
func (e *FlowEngine) validate(c *Consultation, step vo.Step, input string) (answer, error) {
	switch step {
	case vo.StepMemberType:
		m, ok := vo.ParseMemberType(input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.memberType = m }, nil

	case vo.StepGuardianName:
		if utf8.RuneCountInString(input) < minNameRunes {
			return nil, nil
		}
		return func(c *Consultation) { c.guardianName = input }, nil

	case vo.StepGuardianPhone:
		phone, ok := vo.NormalizePhone(input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.guardianPhone = phone }, nil

	case vo.StepPetType:
		p, ok := vo.ParsePetType(input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.petType = p }, nil

	case vo.StepPetName:
		if input == "" {
			return nil, nil
		}
		return func(c *Consultation) { c.petName = input }, nil

	case vo.StepPetAge:
		return func(c *Consultation) { c.petAge = input }, nil

	case vo.StepCategory:
		cat, ok := vo.ParseCategory(input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.category = cat }, nil

	case vo.StepSubcategory:
		if !c.category.IsValid() {
			return nil, fmt.Errorf("%w: subcategory step without a category", ErrStateCorruption)
		}
		sub, ok := vo.ParseSubcategory(c.category, input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.subcategory = sub.Key }, nil

	case vo.StepUrgency:
		u, ok := vo.ParseUrgency(input)
		if !ok {
			return nil, nil
		}
		return func(c *Consultation) { c.urgency = u }, nil

	case vo.StepDescription:
		if utf8.RuneCountInString(input) < minDescriptionRunes {
			return nil, nil
		}
		return func(c *Consultation) { c.description = input }, nil

	case vo.StepPreferredTime:
		v := vo.NormalizePreferredTime(input)
		return func(c *Consultation) { c.preferredTime = v }, nil
	}

	return nil, fmt.Errorf("%w: unexpected step %q", ErrStateCorruption, step)
}

func tooLongMessage(step vo.Step) string {
	switch step {
	case vo.StepGuardianName:
		return fmt.Sprintf("이름은 %d자 이내로 입력해주세요.", maxAnswerRunes[step])
	case vo.StepPetName:
		return fmt.Sprintf("반려동물 이름은 %d자 이내로 입력해주세요.", maxAnswerRunes[step])
	case vo.StepDescription:
		return fmt.Sprintf("상담 내용은 %d자 이내로 작성해주세요.", maxAnswerRunes[step])
	}
	return fmt.Sprintf("%d자 이내로 입력해주세요.", maxAnswerRunes[step])
}

func rejectionMessage(c *Consultation, step vo.Step) string {
	switch step {
	case vo.StepMemberType:
		return "개인 회원 또는 기업/단체 회원을 선택해주세요."
	case vo.StepGuardianName:
		return "올바른 이름을 입력해주세요."
	case vo.StepGuardianPhone:
		return "올바른 전화번호를 입력해주세요. (예: 010-1234-5678)"
	case vo.StepPetType:
		return "강아지, 고양이, 또는 기타를 선택해주세요."
	case vo.StepPetName:
		return "반려동물 이름을 입력해주세요."
	case vo.StepCategory:
		return "상담 분야를 선택해주세요."
	case vo.StepSubcategory:
		return "세부 상담 항목을 선택해주세요.\n\n" + formatOptions(c.category)
	case vo.StepUrgency:
		return "긴급도를 선택해주세요."
	case vo.StepDescription:
		return "상담 내용을 10자 이상 자세히 작성해주세요."
	}
	return promptForStep(c, step)
}
