package domain

// Family identifies one detection modality. Each family has its own
// detector, decision rule and dataset evaluation task.
type Family string

const (
	FamilyEmotion  Family = "emotion"
	FamilyBlink    Family = "blink"
	FamilyHeadpose Family = "headpose"
	FamilyTexture  Family = "texture"
)

// Families returns all families in their fixed reporting order. The
// combined report keys follow this order regardless of task completion
// order.
func Families() []Family {
	return []Family{FamilyEmotion, FamilyBlink, FamilyHeadpose, FamilyTexture}
}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	switch f {
	case FamilyEmotion, FamilyBlink, FamilyHeadpose, FamilyTexture:
		return true
	}
	return false
}
