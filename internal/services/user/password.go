package user

import "golang.org/x/crypto/bcrypt"

// The legacy service stored unsalted SHA-256 digests. bcrypt replaces that
// behind the same hash/verify interface, so existing digests are invalidated
// but the identity service is otherwise unaffected.

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
