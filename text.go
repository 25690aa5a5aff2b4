package coercez

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text mutators. All of them take a string, so chain them after String or
// Stringify when the input type is unknown.
var (
	// Safe removes characters that are dangerous in markup, shells and SQL.
	Safe = Transform("safe", func(value string) string {
		return unsafeChars.ReplaceAllString(value, "")
	})

	// Trim removes leading and trailing whitespace. Chain Spaces first to also
	// remove irregular spaces such as U+200A.
	Trim = Transform("trim", trim)

	// Spaces replaces every space-like character with a regular space and
	// collapses runs of whitespace into one space.
	Spaces = Transform("spaces", spaces)

	// Quotes replaces straight quotes with typographic quotes, apostrophes and
	// primes, "--" with an em dash and ".." with an ellipsis.
	Quotes = Transform("quotes", quotes)

	// UcFirst upper-cases the first character.
	UcFirst = Transform("ucfirst", ucFirst)

	// Proper fixes the capitalization of proper names and addresses.
	//
	//	coercez.Proper.Coerce("john q. o’donnel, iii") // "John Q O’Donnel, III"
	Proper = Transform("proper", proper)

	// Email lower-cases an address, strips whitespace and requires at least
	// one character on both sides of an @.
	Email = Apply("email", func(value string) (string, error) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) || r == '\uFEFF' {
				return -1
			}
			return r
		}, strings.ToLower(value))
		if !emailShape.MatchString(clean) {
			return value, NewError(value, "a valid email address")
		}
		return clean, nil
	})

	// Digits removes everything but 0-9.
	Digits = Transform("digits", digits)

	// Phone returns the digits of a US phone number with any leading 0s and 1s
	// removed. At least 10 digits must remain; extra digits are an extension.
	Phone = Apply("phone", func(value string) (string, error) {
		return phone(value)
	})

	// Phone10 is Phone without an extension: exactly 10 digits.
	Phone10 = Apply("phone10", func(value string) (string, error) {
		valid, err := phone(value)
		if err != nil {
			return value, err
		}
		if len(valid) != 10 {
			return value, NewError(value, "a valid US 10-digit phone number")
		}
		return valid, nil
	})

	// PrettyPhone formats a phone number as "(NNN) NNN-NNNN ext N".
	PrettyPhone = Apply("prettyphone", func(value string) (string, error) {
		valid, err := phone(value)
		if err != nil {
			return value, err
		}
		pretty := "(" + valid[:3] + ") " + valid[3:6] + "-" + valid[6:10]
		if len(valid) > 10 {
			pretty += " ext " + valid[10:]
		}
		return pretty, nil
	})

	// PostalCodeUS5 returns the first five digits of a US ZIP or ZIP+4 code.
	PostalCodeUS5 = Apply("postalcodeus5", func(value string) (string, error) {
		zip := runePrefix(digits(value), 5)
		if len(zip) != 5 {
			return value, NewError(value, "a valid US postal code")
		}
		return zip, nil
	})
)

var (
	unsafeChars   = regexp.MustCompile("[\\\\|\";/?<>()*[\\]{}=`\t\r\n]")
	oddSpaces     = regexp.MustCompile(`[\x{00A0}\x{1680}\x{180E}\x{2000}-\x{200B}\x{202F}\x{205F}\x{3000}\x{FEFF}]`)
	whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r \x{2028}\x{2029}]+`)
	emailShape    = regexp.MustCompile(`[a-z0-9]@[a-z0-9]`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
	leadingOnes   = regexp.MustCompile(`^[01]+`)
)

func trim(value string) string {
	return strings.TrimFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func spaces(value string) string {
	return whitespaceRun.ReplaceAllString(oddSpaces.ReplaceAllString(value, " "), " ")
}

func digits(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

func phone(value string) (string, error) {
	only := leadingOnes.ReplaceAllString(digits(value), "")
	if len(only) < 10 {
		return value, NewError(value, "a valid US phone number")
	}
	return only, nil
}

func ucFirst(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}

type replacement struct {
	search  *regexp.Regexp
	replace string
}

// quoteRules run in order. The backwards apostrophe rule needs a lookahead
// and runs between the ending ' rule and the double prime rule.
var (
	quoteRulesBefore = []replacement{
		{regexp.MustCompile(`'''`), "‴"},
		{regexp.MustCompile(`(\W|^)"(\w)`), "${1}“${2}"},
		{regexp.MustCompile(`(“[^"]*)"([^"]*$|[^“"]*“)`), "${1}”${2}"},
		{regexp.MustCompile(`([^0-9])"`), "${1}”"},
		{regexp.MustCompile(`''`), "″"},
		{regexp.MustCompile(`(\W|^)'(\S)`), "${1}‘${2}"},
		{regexp.MustCompile(`(?i)([a-z])'([a-z])`), "${1}’${2}"},
		{regexp.MustCompile(`(?i)(‘)([0-9]{2}[^’]*)(‘([^0-9]|$)|$|’[a-z])`), "’${2}${3}"},
		{regexp.MustCompile(`(?i)((‘[^']*)|[a-z])'([^0-9]|$)`), "${1}’${3}"},
	}
	quoteRulesAfter = []replacement{
		{regexp.MustCompile(`"`), "″"},
		{regexp.MustCompile(`'`), "′"},
		{regexp.MustCompile(`--`), "—"},
		{regexp.MustCompile(`\.\.+`), "…"},
	}
	backwardsTail = regexp.MustCompile(`^(?:[^‘’]*’\b)*(?:[^‘’]*\B\W[‘’]\b|[^‘’]*$)`)
)

func quotes(value string) string {
	for _, rule := range quoteRulesBefore {
		value = rule.search.ReplaceAllString(value, rule.replace)
	}
	value = backwardsApostrophes(value)
	for _, rule := range quoteRulesAfter {
		value = rule.search.ReplaceAllString(value, rule.replace)
	}
	return value
}

// backwardsApostrophes turns an opening ‘ into ’ when it is not preceded by a
// word character and no matching closing quote follows it, as in ‘til or
// rock ‘n’ roll.
func backwardsApostrophes(value string) string {
	const open = "‘"
	var b strings.Builder
	last := 0
	for i := 0; i < len(value); {
		j := strings.Index(value[i:], open)
		if j < 0 {
			break
		}
		pos := i + j
		end := pos + len(open)
		if (pos == 0 || !isWordByte(value[pos-1])) && backwardsTail.MatchString(value[end:]) {
			b.WriteString(value[last:pos])
			b.WriteString("’")
			last = end
		}
		i = end
	}
	if last == 0 {
		return value
	}
	b.WriteString(value[last:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

var (
	properChars   = regexp.MustCompile(`[^A-Za-z0-9\x{00C0}-\x{00FF}’ ,-]`)
	doubleSpaces  = regexp.MustCompile(`  +`)
	properWord    = regexp.MustCompile(`[^ ,-]+`)
	properPrefix  = regexp.MustCompile(`(?i)^(ma?c|[od]’)(\S{2,})$`)
	upperLetter   = regexp.MustCompile(`[A-Z]`)
	lowerLetter   = regexp.MustCompile(`[a-z]`)
	romanSuffixes = []string{"ii", "iii", "iv", "v"}
	particles     = []string{"dit", "de", "von"}
)

func proper(value string) string {
	mixedCase := upperLetter.MatchString(value) && lowerLetter.MatchString(value)
	clean := properChars.ReplaceAllString(value, " ")
	clean = strings.TrimSpace(doubleSpaces.ReplaceAllString(clean, " "))
	return properWord.ReplaceAllStringFunc(clean, func(word string) string {
		return capitalize(word, mixedCase)
	})
}

// capitalize fixes the case of a single name part. Words of up to three
// characters keep their case when the whole input was already mixed case.
func capitalize(word string, mixedCase bool) string {
	lower := strings.ToLower(word)
	n := utf8.RuneCountInString(word)
	if n == 1 {
		return strings.ToUpper(word)
	}
	if n <= 3 {
		switch {
		case slices.Contains(romanSuffixes, lower):
			return strings.ToUpper(word)
		case slices.Contains(particles, lower):
			return lower
		case mixedCase:
			return word
		}
	}
	out := ucFirst(lower)
	if m := properPrefix.FindStringSubmatch(out); m != nil {
		return ucFirst(m[1]) + ucFirst(m[2])
	}
	return out
}
