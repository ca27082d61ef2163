package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt cost for account credentials. The default keeps login latency in
// the tens of milliseconds on current hardware.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password. bcrypt rejects inputs
// over 72 bytes; the request binding caps passwords below that.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
