package form

import "github.com/julianstephens/nazmara/internal/constants"

// Field sets of the app's forms, in display order.
var (
	SignupFields = []string{
		constants.FieldFirstName,
		constants.FieldLastName,
		constants.FieldNickname,
		constants.FieldEmail,
		constants.FieldPassword,
	}
	LoginFields          = []string{constants.FieldEmail, constants.FieldPassword}
	ForgotPasswordFields = []string{constants.FieldEmail}
	OfflineUserFields    = []string{
		constants.FieldFirstName,
		constants.FieldLastName,
		constants.FieldNickname,
	}
	TaskFields = []string{
		constants.FieldTitle,
		constants.FieldDescription,
		constants.FieldPriority,
	}
)

// fieldOrder fixes the evaluation order so results are deterministic.
var fieldOrder = []string{
	constants.FieldFirstName,
	constants.FieldLastName,
	constants.FieldNickname,
	constants.FieldEmail,
	constants.FieldPassword,
	constants.FieldTitle,
	constants.FieldDescription,
	constants.FieldPriority,
}
