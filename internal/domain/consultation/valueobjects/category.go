package valueobjects

type Category string

const (
	CategoryVeterinary Category = "veterinary"
	CategoryNutrition  Category = "nutrition"
	CategoryBehavior   Category = "behavior"
	CategoryTraining   Category = "training"
	CategoryGrooming   Category = "grooming"
	CategoryHotel      Category = "hotel"
	CategoryDaycare    Category = "daycare"
	CategoryInsurance  Category = "insurance"
	CategoryShopping   Category = "shopping"
	CategoryEmergency  Category = "emergency"
	CategoryOther      Category = "other"
)

// AllCategories is the display order used for prompts and statistics.
var AllCategories = []Category{
	CategoryVeterinary,
	CategoryNutrition,
	CategoryBehavior,
	CategoryTraining,
	CategoryGrooming,
	CategoryHotel,
	CategoryDaycare,
	CategoryInsurance,
	CategoryShopping,
	CategoryEmergency,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryVeterinary: "건강/질병",
	CategoryNutrition:  "영양/사료",
	CategoryBehavior:   "행동 교정",
	CategoryTraining:   "훈련",
	CategoryGrooming:   "미용/관리",
	CategoryHotel:      "호텔/돌봄",
	CategoryDaycare:    "유치원",
	CategoryInsurance:  "보험",
	CategoryShopping:   "쇼핑/상품",
	CategoryEmergency:  "응급",
	CategoryOther:      "기타",
}

// Emergency is checked first so that "응급 건강 문제" is never filed as a
// routine health question.
var categoryRules = []keywordRule[Category]{
	{CategoryEmergency, []string{"응급", "emergency"}},
	{CategoryVeterinary, []string{"건강", "질병", "병원", "health", "veterinary"}},
	{CategoryNutrition, []string{"영양", "사료", "nutrition"}},
	{CategoryBehavior, []string{"행동", "behavior"}},
	{CategoryTraining, []string{"훈련", "training"}},
	{CategoryGrooming, []string{"미용", "관리", "grooming"}},
	{CategoryHotel, []string{"호텔", "돌봄", "hotel"}},
	{CategoryDaycare, []string{"유치원", "daycare"}},
	{CategoryInsurance, []string{"보험", "insurance"}},
	{CategoryShopping, []string{"쇼핑", "상품", "구매", "shopping"}},
	{CategoryOther, []string{"기타", "other"}},
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string { return categoryLabels[c] }

// ParseCategory prefers an exact enum token and falls back to keyword
// matching over free text.
func ParseCategory(input string) (Category, bool) {
	if c, ok := matchExact(input, Category.IsValid); ok {
		return c, true
	}
	return matchKeywords(input, categoryRules)
}
