// This project is licensed under the MIT License (see LICENSE).

// Package paramfile reads the line-oriented parameter-file format that
// configures a run, and reads/writes the population dump format used
// for both full output and initialization from a prior dump.
package paramfile

import (
	"strings"

	"github.com/jcrd/slimcore/internal/apperr"
)

// eofPolicy mirrors EatSubstringWithPrefixAndCharactersAtEOF's three EOF
// expectations: a token may require the rest of the line be consumed, may
// require more to follow, or may not care either way.
type eofPolicy int

const (
	eofNotExpected eofPolicy = iota
	eofExpected
	eofAgnostic
)

// eatToken consumes an optional literal prefix followed by a run of
// characters drawn from allowed, stopping at the first disallowed
// character or end of string, and checks the result against eof. It
// returns the matched substring (prefix included) and the remainder of
// line starting after it.
func eatToken(line, prefix, allowed string, eof eofPolicy) (string, string, error) {
	if prefix != "" {
		if !strings.HasPrefix(line, prefix) {
			return "", line, apperr.New(apperr.InvalidInput, "expected token to start with %q, got %q", prefix, line)
		}
		line = line[len(prefix):]
	}
	i := 0
	for i < len(line) && strings.ContainsRune(allowed, rune(line[i])) {
		i++
	}
	if i == 0 {
		return "", line, apperr.New(apperr.InvalidInput, "expected a character from %q, got %q", allowed, line)
	}
	matched := prefix + line[:i]
	rest := line[i:]

	switch eof {
	case eofNotExpected:
		if rest == "" {
			return "", "", apperr.New(apperr.InvalidInput, "expected more tokens after %q, reached end of line", matched)
		}
	case eofExpected:
		if rest != "" {
			return "", "", apperr.New(apperr.InvalidInput, "unexpected trailing text %q after %q", rest, matched)
		}
	case eofAgnostic:
		// either is fine
	}
	return matched, rest, nil
}

// fields splits a trimmed, comment-stripped line on whitespace, the unit
// eatToken operates on one token at a time.
func fields(line string) []string {
	return strings.Fields(line)
}

// stripComment removes a trailing "// ..." comment and surrounding
// whitespace from one raw line.
func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
