package user

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MaxPasswordLength = 50
	MaxRoleLength     = 32
)

// RolePattern keeps roles out of the record delimiter and line breaks, so a
// role can never smuggle extra fields or extra lines into storage.
var RolePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)

// ValidateUsername checks the registration format rule: 3-20 ASCII letters
// or digits. Stored data is never re-checked against it.
func ValidateUsername(username Username) error {
	return validation.Validate(
		string(username),
		validation.Required.Error("username must not be empty"),
		validation.Length(MinUsernameLength, MaxUsernameLength),
		is.Alphanumeric.Error("username must contain only letters and digits"),
	)
}

func ValidatePassword(password RawPassword) error {
	return validation.Validate(
		string(password),
		validation.Required.Error("password must not be empty"),
		validation.Length(MinPasswordLength, MaxPasswordLength),
	)
}

func ValidateRole(role Role) error {
	return validation.Validate(
		string(role),
		validation.Length(0, MaxRoleLength),
		validation.Match(RolePattern).Error("role must contain only letters, digits, '-' and '_'"),
	)
}
