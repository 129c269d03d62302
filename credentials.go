package guard

import (
	"strings"
)

// Character classes used for temporary credentials. Symbols stay within
// the set the clinic's legacy importer accepts.
const (
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	DigitChars     = "0123456789"
	SymbolChars    = "!@#$%^&*-_=+"
)

// MinCredentialLength is the floor for generated credentials regardless of
// how few classes a caller asks for.
const MinCredentialLength = 4

// DefaultCharClasses returns the four standard classes every generated
// credential draws from.
func DefaultCharClasses() []string {
	return []string{UppercaseChars, LowercaseChars, DigitChars, SymbolChars}
}

// GenerateTemporaryCredential builds a random credential of the given
// length with at least one character from every class. With no classes
// given it uses DefaultCharClasses. The guaranteed draws are placed first
// and the whole buffer is then shuffled with SecureShuffle so class
// positions carry no information.
//
// length below MinCredentialLength, or below the class count, returns
// ErrInvalidCredentialLength.
func GenerateTemporaryCredential(length int, classes ...string) (string, error) {
	if len(classes) == 0 {
		classes = DefaultCharClasses()
	}

	for _, class := range classes {
		if class == "" {
			return "", ErrInvalidCharClass
		}
	}

	if length < MinCredentialLength || length < len(classes) {
		return "", ErrInvalidCredentialLength.Clone().WithMetadata(map[string]any{
			"length":  length,
			"classes": len(classes),
		})
	}

	buf := make([]byte, 0, length)

	for _, class := range classes {
		idx, err := SecureInt(len(class))
		if err != nil {
			return "", err
		}
		buf = append(buf, class[idx])
	}

	union := strings.Join(classes, "")
	for len(buf) < length {
		idx, err := SecureInt(len(union))
		if err != nil {
			return "", err
		}
		buf = append(buf, union[idx])
	}

	if err := SecureShuffle(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}
