package consultation

import (
	"fmt"
	"strings"

	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

const genericDescriptionPrompt = "상세한 문의 내용을 입력해주세요\n\n" +
	"예시:\n• 증상이 언제부터 시작되었나요?\n• 어떤 증상이 있나요?\n• 기타 특이사항"

var stepPrompts = map[vo.Step]string{
	vo.StepMemberType:    "안녕하세요! 🐾 반려동물 상담을 시작합니다.\n\n회원 유형을 선택해주세요.",
	vo.StepGuardianName:  "보호자님의 성함을 입력해주세요.",
	vo.StepGuardianPhone: "📞 연락처를 입력해주세요\n\n예시: 010-1234-5678",
	vo.StepPetType:       "반려동물 종류를 선택해주세요 🐾",
	vo.StepPetName:       "반려동물의 이름을 입력해주세요.",
	vo.StepPetAge:        "🎂 반려동물의 나이를 입력해주세요\n\n예시: 3살 또는 3",
	vo.StepCategory:      "상담 카테고리를 선택해주세요 📋",
	vo.StepUrgency:       "긴급도를 선택해주세요.\n\n• 긴급: 24시간 내 연락\n• 보통: 2-3일 내 연락\n• 여유: 1주일 내 연락",
	vo.StepPreferredTime: "선호하는 상담 시간대를 선택해주세요 🕐",
}

var descriptionPrompts = map[vo.Category]string{
	vo.CategoryEmergency: "🚨 응급 상황을 최대한 자세히 알려주세요\n\n" +
		"• 무엇을 먹었거나 어떤 사고가 있었나요?\n• 현재 호흡과 의식 상태는 어떤가요?\n• 언제 발생했나요?\n\n" +
		"⚠️ 생명이 위급하다면 상담을 기다리지 말고 가까운 24시 동물병원을 방문해주세요.",
	vo.CategoryVeterinary: "🩺 증상을 자세히 알려주세요\n\n" +
		"예시:\n• 증상이 언제부터 시작되었나요?\n• 식욕, 배변, 활력에 변화가 있나요?\n• 복용 중인 약이 있나요?",
	vo.CategoryNutrition: "🍖 현재 급여 중인 사료와 고민을 알려주세요\n\n" +
		"예시:\n• 현재 사료 브랜드와 급여량\n• 체중 변화\n• 알레르기 여부",
	vo.CategoryBehavior: "🐕 어떤 행동이 고민이신가요?\n\n" +
		"예시:\n• 문제 행동이 나타나는 상황\n• 시작된 시기\n• 지금까지 시도한 방법",
	vo.CategoryTraining: "🎓 원하시는 훈련 내용을 알려주세요\n\n" +
		"예시:\n• 훈련 목표\n• 현재 할 수 있는 명령어\n• 희망 일정",
	vo.CategoryGrooming: "✂️ 원하시는 미용 스타일이나 관리 내용을 알려주세요\n\n" +
		"예시:\n• 원하는 스타일\n• 피부나 털 상태\n• 예민한 부위",
	vo.CategoryHotel: "🏨 이용 일정과 요청 사항을 알려주세요\n\n" +
		"예시:\n• 입실/퇴실 날짜\n• 식사와 복용 약\n• 성격과 주의 사항",
	vo.CategoryInsurance: "📄 보험 관련 문의 내용을 알려주세요\n\n" +
		"예시:\n• 가입 중인 보험사\n• 청구하려는 진료 내역\n• 궁금한 보장 항목",
}

// PromptFor returns the question for the record's current step.
func PromptFor(c *Consultation) string {
	return promptForStep(c, c.currentStep)
}

func promptForStep(c *Consultation, step vo.Step) string {
	switch step {
	case vo.StepSubcategory:
		return "세부 상담 항목을 선택해주세요 📝\n\n" + formatOptions(c.category)
	case vo.StepDescription:
		if p, ok := descriptionPrompts[c.category]; ok {
			return p
		}
		return genericDescriptionPrompt
	case vo.StepCompleted:
		return completionMessage(c)
	}
	return stepPrompts[step]
}

func completionMessage(c *Consultation) string {
	var b strings.Builder
	b.WriteString("✅ 상담 신청이 완료되었습니다!\n\n")
	fmt.Fprintf(&b, "접수번호: %s\n", c.ticketNumber)
	fmt.Fprintf(&b, "상담 분야: %s > %s\n", c.category.Label(), c.SubcategoryLabel())
	if window := c.urgency.ContactWindow(); window != "" {
		fmt.Fprintf(&b, "\n전문 상담사가 %s 연락드리겠습니다.", window)
	}
	if c.category == vo.CategoryEmergency {
		b.WriteString("\n\n⚠️ 상태가 악화되면 즉시 가까운 동물병원을 방문해주세요.")
	}
	return b.String()
}

func formatOptions(category vo.Category) string {
	opts := vo.SubcategoriesFor(category)
	lines := make([]string, 0, len(opts))
	for _, opt := range opts {
		lines = append(lines, "• "+opt.Label)
	}
	return strings.Join(lines, "\n")
}

// Options lists the quick replies a channel can render for the record's
// current step. Free-text steps have none.
func Options(c *Consultation) []Option {
	switch c.currentStep {
	case vo.StepMemberType:
		return []Option{
			{Value: string(vo.MemberTypePersonal), Label: vo.MemberTypePersonal.Label()},
			{Value: string(vo.MemberTypeCorporate), Label: vo.MemberTypeCorporate.Label()},
		}
	case vo.StepPetType:
		return []Option{
			{Value: string(vo.PetTypeDog), Label: vo.PetTypeDog.Label()},
			{Value: string(vo.PetTypeCat), Label: vo.PetTypeCat.Label()},
			{Value: string(vo.PetTypeOther), Label: vo.PetTypeOther.Label()},
		}
	case vo.StepCategory:
		out := make([]Option, 0, len(vo.AllCategories))
		for _, cat := range vo.AllCategories {
			out = append(out, Option{Value: string(cat), Label: cat.Label()})
		}
		return out
	case vo.StepSubcategory:
		opts := vo.SubcategoriesFor(c.category)
		out := make([]Option, 0, len(opts))
		for _, opt := range opts {
			out = append(out, Option{Value: opt.Key, Label: opt.Label})
		}
		return out
	case vo.StepUrgency:
		out := make([]Option, 0, len(vo.AllUrgencies))
		for _, u := range vo.AllUrgencies {
			out = append(out, Option{Value: string(u), Label: u.Label()})
		}
		return out
	case vo.StepPreferredTime:
		out := make([]Option, 0, len(vo.PreferredTimeOptions))
		for _, v := range vo.PreferredTimeOptions {
			out = append(out, Option{Value: v, Label: vo.PreferredTimeLabel(v)})
		}
		return out
	}
	return nil
}

// Option is a quick reply button.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
