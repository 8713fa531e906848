/*
Package randx generates random Base62 strings with crypto/rand.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Base62Chars is the alphabet used for generated strings (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// NicknamePrefix starts every generated nickname.
	NicknamePrefix = "User_"

	nicknameRandomLength = 6
)

var base62Len = big.NewInt(int64(len(Base62Chars)))

// Base62 returns n random characters from Base62Chars.
func Base62(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, base62Len)
		if err != nil {
			return "", fmt.Errorf("failed to generate random Base62 character: %w", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// Nickname returns a placeholder display name such as "User_a1B2c3" for
// accounts registered without one.
func Nickname() (string, error) {
	suffix, err := Base62(nicknameRandomLength)
	if err != nil {
		return "", err
	}
	return NicknamePrefix + suffix, nil
}
