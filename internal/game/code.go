package game

import (
	"context"
	"crypto/rand"
	"math/big"

	"sk8_webapp/internal/domain"
)

// Join codes are short enough to read off someone's screen, so the
// alphabet drops 0/O/1/I.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 6
	codeAttempts = 10
)

// CodeExistsFunc reports whether a code is already taken.
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// NewCode draws random codes until one passes the existence check,
// giving up after a bounded number of attempts so a crowded keyspace
// surfaces as resource-exhausted instead of an endless loop.
func NewCode(ctx context.Context, exists CodeExistsFunc) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", domain.NewError(domain.KindResourceExhausted, "unable to allocate game code, please try again")
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
