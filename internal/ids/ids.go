package ids

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	pollIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	pollIDLength   = 6

	nominationIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
	nominationIDLength   = 8
)

// NewPollID returns a 6-character uppercase alphanumeric poll code.
func NewPollID() string {
	return randomString(pollIDAlphabet, pollIDLength)
}

func NewParticipantID() string {
	return uuid.NewString()
}

func NewNominationID() string {
	return randomString(nominationIDAlphabet, nominationIDLength)
}

func randomString(alphabet string, length int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
