package user

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	// ValidatePassword reports whether password reproduces hash. A non-nil
	// error wraps ErrInvalidHashFormat and means the stored hash itself is
	// corrupted, not that the password is wrong.
	ValidatePassword(password RawPassword, hash PasswordHash) (bool, error)
}
