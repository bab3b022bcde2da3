package valueobjects

type MemberType string

const (
	MemberTypePersonal  MemberType = "personal"
	MemberTypeCorporate MemberType = "corporate"
)

var memberTypeLabels = map[MemberType]string{
	MemberTypePersonal:  "개인 회원",
	MemberTypeCorporate: "기업/단체 회원",
}

var memberTypeRules = []keywordRule[MemberType]{
	{MemberTypePersonal, []string{"개인", "personal"}},
	{MemberTypeCorporate, []string{"기업", "단체", "corporate"}},
}

func (m MemberType) String() string { return string(m) }

func (m MemberType) IsValid() bool {
	_, ok := memberTypeLabels[m]
	return ok
}

func (m MemberType) Label() string { return memberTypeLabels[m] }

// ParseMemberType accepts the enum token or any text containing a known
// keyword, e.g. "개인 회원입니다".
func ParseMemberType(input string) (MemberType, bool) {
	if m, ok := matchExact(input, MemberType.IsValid); ok {
		return m, true
	}
	return matchKeywords(input, memberTypeRules)
}
