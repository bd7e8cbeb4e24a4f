package constants

// Field names understood by the form validator.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldNickname    = "nickname"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
)

// Length bounds, counted in characters.
const (
	NameMinLen        = 3
	NameMaxLen        = 50
	NicknameMinLen    = 3
	NicknameMaxLen    = 255
	PasswordMinLen    = 8
	PasswordMaxLen    = 50
	TaskTextMinLen    = 3
	TaskTextMaxLen    = 50
	MinPasswordScore  = 3
	MaxEmailLocalPart = 64
)

// Priority display labels, indexed by stored priority value.
var PriorityLabels = []string{"Low", "Medium", "High"}

const DefaultPriorityLabel = "Medium"
