package valueobjects

type PetType string

const (
	PetTypeDog   PetType = "dog"
	PetTypeCat   PetType = "cat"
	PetTypeOther PetType = "other"
)

var petTypeLabels = map[PetType]string{
	PetTypeDog:   "강아지",
	PetTypeCat:   "고양이",
	PetTypeOther: "기타",
}

var petTypeRules = []keywordRule[PetType]{
	{PetTypeDog, []string{"강아지", "개", "dog"}},
	{PetTypeCat, []string{"고양이", "냥", "cat"}},
	{PetTypeOther, []string{"기타", "other"}},
}

func (p PetType) String() string { return string(p) }

func (p PetType) IsValid() bool {
	_, ok := petTypeLabels[p]
	return ok
}

func (p PetType) Label() string { return petTypeLabels[p] }

func ParsePetType(input string) (PetType, bool) {
	if p, ok := matchExact(input, PetType.IsValid); ok {
		return p, true
	}
	return matchKeywords(input, petTypeRules)
}
