package password

import "golang.org/x/crypto/bcrypt"

const hashCost = bcrypt.DefaultCost

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	return string(hashed), err
}

// Verify reports whether plain matches the stored bcrypt hash. The
// failure reason is deliberately not exposed.
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
