package pkg

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordHashCost = 14

// MaxPasswordBytes is the longest password bcrypt takes into account.
const MaxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultPasswordHashCost)
}

func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return ComparePasswordHash(password, hash) == nil
}

// ComparePasswordHash returns bcrypt.ErrMismatchedHashAndPassword on a wrong password,
// and other bcrypt errors when the stored hash itself is malformed.
// bcrypt only reads the first MaxPasswordBytes, so a longer password never matches,
// otherwise any suffix appended to a 72 byte password would pass.
func ComparePasswordHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil && len(password) > MaxPasswordBytes {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return err
}
