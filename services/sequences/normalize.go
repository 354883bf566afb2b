package sequences

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"

	"primerdesign/api/models"
)

// NormalizeIdentifier is the cache key form of an identifier.
func NormalizeIdentifier(identifier string) string {
	return strings.ToUpper(strings.TrimSpace(identifier))
}

// LooksLikeSequence reports whether input is raw nucleotide text (or FASTA)
// rather than a gene symbol or accession.
func LooksLikeSequence(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ">") {
		return true
	}
	if len(trimmed) < 10 {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		switch unicode.ToUpper(r) {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}

// Normalize turns provider text into a Sequence. FASTA headers are dropped
// (only the first record is kept), whitespace is removed and bases are
// uppercased. Anything outside ACGT is rejected rather than repaired.
func Normalize(identifier, raw string) (models.Sequence, error) {
	var b strings.Builder
	b.Grow(len(raw))

	seenHeader := false
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), len(raw)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if seenHeader || b.Len() > 0 {
				break
			}
			seenHeader = true
			continue
		}
		for _, r := range line {
			if unicode.IsSpace(r) {
				continue
			}
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &SequenceFetchError{Identifier: identifier, Reason: "unreadable sequence text", Err: err}
	}

	seq := b.String()
	if seq == "" {
		return "", &SequenceFetchError{Identifier: identifier, Reason: "empty sequence"}
	}
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return "", &SequenceFetchError{
				Identifier: identifier,
				Reason:     fmt.Sprintf("invalid base %q at position %d", seq[i], i+1),
			}
		}
	}
	return models.Sequence(seq), nil
}
