package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ideaswipe_server/models"
)

// Namespaces for the deterministic ids. Two writers racing on the same pair and idea
// compute the same id, so the table's primary key enforces uniqueness.
var (
	matchNamespace   = uuid.MustParse("6f1d3c2a-8a4e-4f4b-9a53-1d0c6a7e2b10")
	requestNamespace = uuid.MustParse("b3e0c1d4-2f6a-4c7e-8d19-5a4b3c2d1e0f")
)

// CanonicalPair orders two user ids so {a,b} and {b,a} produce the same key.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// MatchIDFor returns the id of the match between two users over an idea.
func MatchIDFor(ideaID, userA, userB string) string {
	lo, hi := CanonicalPair(userA, userB)
	return uuid.NewSHA1(matchNamespace, canonicalKey(ideaID, lo, hi)).String()
}

// RequestIDFor returns the id of requesterID's request on ideaID.
func RequestIDFor(requesterID, ideaID string) string {
	return uuid.NewSHA1(requestNamespace, canonicalKey(requesterID, ideaID)).String()
}

// canonicalKey length-prefixes each part, so no choice of ids can make two
// different tuples encode to the same bytes.
func canonicalKey(parts ...string) []byte {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return []byte(b.String())
}

func sortKey(at time.Time, id string) string {
	return at.UTC().Format(models.SortTimeFormat) + "#" + id
}
