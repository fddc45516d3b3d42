package hash

import "golang.org/x/crypto/bcrypt"

// Cost is overridable so tests can run with the cheap minimum.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashBytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
