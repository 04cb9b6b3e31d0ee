package room

type Type string

const (
	TypeStandard Type = "standard"
	TypeDeluxe   Type = "deluxe"
	TypeFamily   Type = "family"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeStandard, TypeDeluxe, TypeFamily:
		return true
	default:
		return false
	}
}

func NewType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}
