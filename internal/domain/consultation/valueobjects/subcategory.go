package valueobjects

import "strings"

// Subcategory is one option under a Category. Key is stored; Label is
// shown to the guardian.
type Subcategory struct {
	Key   string
	Label string
}

var subcategories = map[Category][]Subcategory{
	CategoryVeterinary: {
		{"checkup", "건강검진"},
		{"illness", "질병/증상"},
		{"vaccination", "예방접종"},
		{"surgery", "수술/입원"},
		{"dental", "치아/구강"},
		{"skin", "피부/귀"},
	},
	CategoryNutrition: {
		{"food_recommendation", "사료 추천"},
		{"diet", "체중 조절"},
		{"supplement", "영양제"},
		{"food_allergy", "식이 알레르기"},
	},
	CategoryBehavior: {
		{"aggression", "공격성"},
		{"separation_anxiety", "분리불안"},
		{"barking", "짖음/울음"},
		{"toilet", "배변 문제"},
		{"destructive", "물건 파손"},
	},
	CategoryTraining: {
		{"basic_obedience", "기본 예절 훈련"},
		{"leash", "산책 훈련"},
		{"socialization", "사회화"},
		{"puppy_class", "퍼피 클래스"},
	},
	CategoryGrooming: {
		{"full_grooming", "전체 미용"},
		{"bath", "목욕"},
		{"nail", "발톱 관리"},
		{"coat_care", "털 엉킴/관리"},
	},
	CategoryHotel: {
		{"short_stay", "단기 숙박"},
		{"long_stay", "장기 숙박"},
		{"pet_sitting", "방문 펫시팅"},
	},
	CategoryDaycare: {
		{"daily", "일일 이용"},
		{"monthly", "정기 등록"},
		{"trial", "체험 이용"},
	},
	CategoryInsurance: {
		{"enrollment", "가입 상담"},
		{"claim", "보험금 청구"},
		{"coverage", "보장 내용 문의"},
	},
	CategoryShopping: {
		{"food_snack", "사료/간식"},
		{"supplies", "용품"},
		{"health_products", "건강 보조 제품"},
		{"exchange_return", "교환/반품"},
	},
	CategoryEmergency: {
		{"poisoning", "이물질 섭취/중독"},
		{"injury", "외상/골절"},
		{"breathing", "호흡 곤란"},
		{"seizure", "경련/발작"},
		{"bleeding", "출혈"},
	},
	CategoryOther: {
		{"general", "일반 문의"},
		{"partnership", "제휴 문의"},
		{"feedback", "의견/불편 사항"},
	},
}

// SubcategoriesFor returns the options for c, or nil for an unknown
// category.
func SubcategoriesFor(c Category) []Subcategory {
	opts := subcategories[c]
	if opts == nil {
		return nil
	}
	out := make([]Subcategory, len(opts))
	copy(out, opts)
	return out
}

// ParseSubcategory matches input against the keys and labels of c's
// options. Spaces are ignored when comparing labels.
func ParseSubcategory(c Category, input string) (Subcategory, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Subcategory{}, false
	}
	lower := strings.ToLower(trimmed)
	compact := stripSpaces(trimmed)
	for _, opt := range subcategories[c] {
		if lower == opt.Key || trimmed == opt.Label || compact == stripSpaces(opt.Label) {
			return opt, true
		}
	}
	return Subcategory{}, false
}

// SubcategoryLabel returns the label for key under c, or key itself when
// the pair is unknown.
func SubcategoryLabel(c Category, key string) string {
	for _, opt := range subcategories[c] {
		if opt.Key == key {
			return opt.Label
		}
	}
	return key
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
