package models

// MachineType identifies one of the shop's fixed roasting machines.
type MachineType string

const (
	MachineG60 MachineType = "G60"
	MachineP25 MachineType = "P25"
	MachineL12 MachineType = "L12"
)

// ValidMachine reports whether m is a known machine identifier.
func ValidMachine(m MachineType) bool {
	switch m {
	case MachineG60, MachineP25, MachineL12:
		return true
	}
	return false
}

// ProductsByMachine lists the bean products roasted on each machine.
var ProductsByMachine = map[MachineType][]string{
	MachineG60: {
		"아메리칸 캐쥬얼",
		"다크 댄디",
		"코튼 캔디",
		"콜롬비아",
	},
	MachineP25: {
		"스페셜",
		"디카페인",
		"카페 타샤",
		"검을 현",
		"모카비",
		"카페 잇",
		"플랫 커스텀",
		"블랙 슈가",
		"앤드앤 클래식",
		"앤드앤 오리지널",
		"앤드엔 시그니처",
		"백성민 R",
	},
	MachineL12: {
		"스타 클래식",
		"오렌지 빈티지",
		"코튼 캔디",
		"레드베리",
		"백성 민",
		"브릭 초콜릿",
		"메이플 레드",
		"딥 노트",
		"넛티 로스트",
		"콜롬비아",
		"브라질",
		"에티오피아 G2 W",
		"에티오피아 G1 N",
		"케냐",
		"인도네시아",
		"베트남",
	},
}

// DefaultProduct returns the first catalog entry for a machine, or "".
func DefaultProduct(m MachineType) string {
	if ps := ProductsByMachine[m]; len(ps) > 0 {
		return ps[0]
	}
	return ""
}
