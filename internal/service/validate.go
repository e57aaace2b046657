package service

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/unclebandit/hey-mailer/internal/errors"
)

// ValidateEmail accepts a bare ASCII address such as "jane@example.com".
// Display names, missing @ and domains that are not dotted hostnames are rejected.
func ValidateEmail(address string) error {
	invalid := func(reason string) error {
		return apperrors.NewValidationError("email", address, reason)
	}

	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return invalid("must not be empty")
	}
	if trimmed != address {
		return invalid("must not have surrounding whitespace")
	}
	for i := 0; i < len(address); i++ {
		if address[i] >= utf8.RuneSelf {
			return invalid("must be ASCII")
		}
	}
	if !strings.Contains(address, "@") {
		return invalid("missing @")
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return invalid("not a valid email address")
	}
	if parsed.Name != "" || parsed.Address != address {
		return invalid("must be a plain address without a display name")
	}

	domain := address[strings.LastIndex(address, "@")+1:]
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return invalid("domain must contain a dot")
	}
	for _, l := range labels {
		if l == "" {
			return invalid("domain has an empty label")
		}
		if !validLabel(l) {
			return invalid("domain label " + strconv.Quote(l) + " is not a hostname label")
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 || strings.IndexFunc(tld, func(r rune) bool { return !isLetter(byte(r)) }) >= 0 {
		return invalid("top-level domain must be at least two letters")
	}
	return nil
}

// validLabel reports whether l is letters, digits and inner hyphens.
func validLabel(l string) bool {
	if len(l) > 63 || l[0] == '-' || l[len(l)-1] == '-' {
		return false
	}
	for i := 0; i < len(l); i++ {
		c := l[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
