package domain

// RaterTag identifies the respondent category behind a rater-expanded
// artifact variant.
type RaterTag string

const (
	RaterDefault  RaterTag = "default"
	RaterSelf     RaterTag = "self"
	RaterParent   RaterTag = "parent"
	RaterTeacher  RaterTag = "teacher"
	RaterObserver RaterTag = "observer"
)

// RaterOrder returns the fixed manifest position of a rater tag.
// Self sorts before parent, teacher, observer; default sorts first.
func RaterOrder(t RaterTag) int {
	switch t {
	case RaterDefault:
		return 0
	case RaterSelf:
		return 1
	case RaterParent:
		return 2
	case RaterTeacher:
		return 3
	case RaterObserver:
		return 4
	}
	return 5
}

// ParseRaterTag normalizes a source-data respondent column value.
// Unknown values map to self, which matches how legacy exports leave the
// column blank for self-report instruments.
func ParseRaterTag(s string) RaterTag {
	switch s {
	case "parent", "caregiver", "mother", "father", "guardian":
		return RaterParent
	case "teacher":
		return RaterTeacher
	case "observer", "clinician", "examiner", "informant":
		return RaterObserver
	case "self", "subject", "":
		return RaterSelf
	}
	return RaterSelf
}
