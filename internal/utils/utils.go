package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// GenerateRandomString returns n random alphanumeric characters, used
// for short URL slugs when the caller does not pick one.
func GenerateRandomString(n int) (string, error) {
	if n < 0 {
		return "", errors.New("negative length")
	}
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		ret[i] = letters[num.Int64()]
	}

	return string(ret), nil
}
