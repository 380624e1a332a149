// Package refname checks candidate branch identifiers against git's
// ref-naming rules.
//
// The check is pure and total: every string is either accepted or rejected
// with a [Violation] naming the rule and the offending fragment. It never
// shells out to git, so identifiers can be validated before any repository
// is touched.
package refname

import (
	"fmt"
	"strings"
)

// MaxLength is the longest identifier accepted, in bytes. It leaves headroom
// under common filesystem and ref length ceilings.
const MaxLength = 244

// forbiddenChars are characters git refuses anywhere in a ref name.
const forbiddenChars = `~^:?*[\`

// Rule identifies which ref-naming rule a candidate violated.
type Rule string

const (
	RuleEmpty         Rule = "empty"
	RuleTooLong       Rule = "too-long"
	RuleLeadingDash   Rule = "leading-dash"
	RuleDoubleDot     Rule = "double-dot"
	RuleForbiddenChar Rule = "forbidden-character"
	RuleControlChar   Rule = "control-character"
	RuleAtBrace       Rule = "at-brace"
	RuleDoubleSlash   Rule = "double-slash"
	RuleTrailingSlash Rule = "trailing-slash"
	RuleLockSuffix    Rule = "lock-suffix"
)

var ruleText = map[Rule]string{
	RuleEmpty:         "must not be empty",
	RuleTooLong:       fmt.Sprintf("must be at most %d bytes", MaxLength),
	RuleLeadingDash:   "must not start with '-'",
	RuleDoubleDot:     "must not contain '..'",
	RuleForbiddenChar: "must not contain any of " + strings.Join(strings.Split(forbiddenChars, ""), " "),
	RuleControlChar:   "must not contain spaces or control characters",
	RuleAtBrace:       "must not contain '@{'",
	RuleDoubleSlash:   "must not contain '//'",
	RuleTrailingSlash: "must not end with '/'",
	RuleLockSuffix:    "must not end with '.lock'",
}

// Violation describes why a candidate was rejected.
type Violation struct {
	Rule     Rule
	Fragment string // offending substring, empty for RuleEmpty
}

func (v *Violation) Error() string {
	if v.Fragment == "" {
		return fmt.Sprintf("branch name %s", ruleText[v.Rule])
	}
	return fmt.Sprintf("branch name %s (found %q)", ruleText[v.Rule], v.Fragment)
}

// Validate reports whether candidate is a valid branch identifier.
// When it is not, reason describes the violated rule and fragment.
func Validate(candidate string) (ok bool, reason string) {
	if v := Check(candidate); v != nil {
		return false, v.Error()
	}
	return true, ""
}

// Check returns the first rule candidate violates, or nil.
func Check(candidate string) *Violation {
	switch {
	case candidate == "":
		return &Violation{Rule: RuleEmpty}
	case len(candidate) > MaxLength:
		return &Violation{Rule: RuleTooLong, Fragment: candidate[MaxLength:]}
	case strings.HasPrefix(candidate, "-"):
		return &Violation{Rule: RuleLeadingDash, Fragment: "-"}
	case strings.Contains(candidate, ".."):
		return &Violation{Rule: RuleDoubleDot, Fragment: ".."}
	}

	if i := strings.IndexAny(candidate, forbiddenChars); i >= 0 {
		return &Violation{Rule: RuleForbiddenChar, Fragment: candidate[i : i+1]}
	}
	for i := 0; i < len(candidate); i++ {
		if c := candidate[i]; c <= ' ' || c == 0x7f {
			return &Violation{Rule: RuleControlChar, Fragment: candidate[i : i+1]}
		}
	}

	switch {
	case strings.Contains(candidate, "@{"):
		return &Violation{Rule: RuleAtBrace, Fragment: "@{"}
	case strings.Contains(candidate, "//"):
		return &Violation{Rule: RuleDoubleSlash, Fragment: "//"}
	case strings.HasSuffix(candidate, "/"):
		return &Violation{Rule: RuleTrailingSlash, Fragment: "/"}
	case strings.HasSuffix(candidate, ".lock"):
		return &Violation{Rule: RuleLockSuffix, Fragment: ".lock"}
	}
	return nil
}
