package models

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	idLength   = 9
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	idMu  sync.Mutex
	idRng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewID returns a short opaque identifier for new records.
//
// IDs are nine base36 characters, matching the format the system has
// always stored. Collision probability is negligible at the expected
// scale (hundreds of records) but not guaranteed; IDs are not
// cryptographically secure and must never be used as secrets.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	var b strings.Builder
	b.Grow(idLength)
	for i := 0; i < idLength; i++ {
		b.WriteByte(idAlphabet[idRng.Intn(len(idAlphabet))])
	}
	return b.String()
}

// UniqueCode derives the short verification code printed on a sale
// receipt from the customer's name and mobile number. The same inputs
// always produce the same code, so re-submitting an identical sale does
// not mint a new code.
func UniqueCode(name, mobile string) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s", strings.TrimSpace(strings.ToLower(name)), strings.TrimSpace(mobile))
	return strings.ToUpper(strconv.FormatUint(uint64(h.Sum32()), 36))
}
