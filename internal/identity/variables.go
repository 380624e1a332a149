package identity

import (
	"context"
	"errors"
	"os"
	"os/user"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/spec-kit/specify/internal/git"
)

// MaxShortNameLength caps {short_name} in characters.
const MaxShortNameLength = 50

// Variables resolves the user-derived placeholders. Implementations are
// only consulted when the template uses the placeholder.
type Variables interface {
	// Username returns the normalized {username} value.
	Username(ctx context.Context) (string, error)
	// EmailPrefix returns the normalized {email_prefix} value, possibly empty.
	EmailPrefix(ctx context.Context) (string, error)
}

// GitVariables reads user.name and user.email as git sees them from Dir,
// so repository-local config wins over global config.
type GitVariables struct {
	Dir string
}

// Username returns git user.name, falling back to the OS account name.
func (g GitVariables) Username(ctx context.Context) (string, error) {
	name, err := git.ConfigValue(ctx, g.Dir, "user.name")
	if err != nil {
		return "", err
	}
	if n := Normalize(name); n != "" {
		return n, nil
	}
	if n := Normalize(osUsername()); n != "" {
		return n, nil
	}
	return "", errors.New("cannot determine {username}: set git user.name")
}

// EmailPrefix returns the part of git user.email before the "@".
func (g GitVariables) EmailPrefix(ctx context.Context) (string, error) {
	email, err := git.ConfigValue(ctx, g.Dir, "user.email")
	if err != nil {
		return "", err
	}
	local, _, _ := strings.Cut(email, "@")
	return Normalize(local), nil
}

func osUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// Windows reports DOMAIN\user
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return os.Getenv("USERNAME")
}

// fold strips combining marks after decomposition, so "é" becomes "e".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize lowercases s and replaces every run of characters other than
// letters and digits with a single hyphen, trimming hyphens at both ends.
// "Jane Smith" becomes "jane-smith".
func Normalize(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(fold(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// ShortName derives {short_name} from a free-text description.
// Whitespace and the separators - _ / . become hyphens, other punctuation is
// dropped, and the result is cut to MaxShortNameLength characters without a
// trailing hyphen.
func ShortName(description string) (string, error) {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(fold(description)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || strings.ContainsRune("-_/.", r):
			pending = true
		}
	}

	name := b.String()
	if name == "" {
		return "", ErrEmptyDescription
	}
	if rs := []rune(name); len(rs) > MaxShortNameLength {
		name = strings.TrimRight(string(rs[:MaxShortNameLength]), "-")
	}
	return name, nil
}
