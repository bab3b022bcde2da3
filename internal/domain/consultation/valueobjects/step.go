package valueobjects

import "fmt"

// Step is a position in the intake flow.
type Step string

const (
	StepMemberType    Step = "member_type"
	StepGuardianName  Step = "guardian_name"
	StepGuardianPhone Step = "guardian_phone"
	StepPetType       Step = "pet_type"
	StepPetName       Step = "pet_name"
	StepPetAge        Step = "pet_age"
	StepCategory      Step = "category"
	StepSubcategory   Step = "subcategory"
	StepUrgency       Step = "urgency"
	StepDescription   Step = "description"
	StepPreferredTime Step = "preferred_time"
	StepCompleted     Step = "completed"
)

// flowOrder is the only path through the flow. Every step is mandatory.
var flowOrder = []Step{
	StepMemberType,
	StepGuardianName,
	StepGuardianPhone,
	StepPetType,
	StepPetName,
	StepPetAge,
	StepCategory,
	StepSubcategory,
	StepUrgency,
	StepDescription,
	StepPreferredTime,
}

var stepIndex = func() map[Step]int {
	m := make(map[Step]int, len(flowOrder)+1)
	for i, s := range flowOrder {
		m[s] = i + 1
	}
	m[StepCompleted] = len(flowOrder) + 1
	return m
}()

// FlowSteps returns the input steps in order, excluding StepCompleted.
func FlowSteps() []Step {
	out := make([]Step, len(flowOrder))
	copy(out, flowOrder)
	return out
}

func (s Step) String() string {
	return string(s)
}

func (s Step) IsValid() bool {
	_, ok := stepIndex[s]
	return ok
}

func (s Step) IsTerminal() bool {
	return s == StepCompleted
}

// Position is the 1-based place of s in the flow; StepCompleted is 12 and
// unknown steps are 0.
func (s Step) Position() int {
	return stepIndex[s]
}

// Next returns the step after s. It reports false for StepCompleted and
// for values outside the flow.
func (s Step) Next() (Step, bool) {
	i, ok := stepIndex[s]
	if !ok || s == StepCompleted {
		return "", false
	}
	if i == len(flowOrder) {
		return StepCompleted, true
	}
	return flowOrder[i], true
}

func NewStep(s string) (Step, error) {
	step := Step(s)
	if !step.IsValid() {
		return "", fmt.Errorf("invalid consultation step: %s", s)
	}
	return step, nil
}
