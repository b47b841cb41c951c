package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

const (
	confirmationCodeMin = 100000
	confirmationCodeMax = 999999
)

// Generator produces confirmation codes and reset tokens from Rand,
// or from crypto/rand when Rand is nil.
type Generator struct {
	Rand io.Reader
}

func NewGenerator(r io.Reader) *Generator {
	return &Generator{Rand: r}
}

func (g *Generator) reader() io.Reader {
	if g == nil || g.Rand == nil {
		return rand.Reader
	}
	return g.Rand
}

// ConfirmationCode is uniform in [100000, 999999], so it never has a leading zero.
func (g *Generator) ConfirmationCode() (string, error) {
	n, err := rand.Int(g.reader(), big.NewInt(confirmationCodeMax-confirmationCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("confirmation code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+confirmationCodeMin, 10), nil
}

func (g *Generator) ResetToken() (string, error) {
	id, err := uuid.NewRandomFromReader(g.reader())
	if err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	return id.String(), nil
}
