package nexo

import (
	"math/rand"
	"strconv"
)

// NewServiceID returns a random six digit correlation token.
func NewServiceID() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
