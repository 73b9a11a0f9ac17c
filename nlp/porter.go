package nlp

import "strings"

// NLTKPorterStemmer is the Porter algorithm with the extensions NLTK enables by
// default. Models trained on NLTK-stemmed text need it to hit their vocabulary:
//
//   - a fixed table of irregular forms ("news", "dying", "skies", ...)
//   - words of one or two letters pass through unchanged
//   - 4-letter "ies"/"ied" words become "ie" ("dies" -> "die")
//   - y becomes i only after a consonant ("happy" -> "happi", "today" stays)
//   - "alli" is reduced before the other step 2 rules; "fulli" and "logi" are added
//
// It only looks at ASCII letters; the Normalizer guarantees nothing else arrives.
type NLTKPorterStemmer struct{}

var _ Stemmer = NLTKPorterStemmer{}

var irregularForms = map[string]string{
	"sky":      "sky",
	"skies":    "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"innings":  "inning",
	"inning":   "inning",
	"outings":  "outing",
	"outing":   "outing",
	"cannings": "canning",
	"canning":  "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

func (NLTKPorterStemmer) Stem(token string) string {
	word := strings.ToLower(token)
	if stem, ok := irregularForms[word]; ok {
		return stem
	}
	if len(word) <= 2 {
		return word
	}

	word = step1a(word)
	word = step1b(word)
	word = step1c(word)
	word = step2(word)
	word = step3(word)
	word = step4(word)
	word = step5a(word)
	word = step5b(word)
	return word
}

// porterRule replaces suffix with replacement when cond holds for the stem
// left after removing suffix. The first rule whose suffix matches decides the
// outcome, whether or not its condition holds.
type porterRule struct {
	suffix      string
	replacement string
	cond        func(stem string) bool
}

// doubleConsonant matches any word ending in a doubled consonant and removes both letters.
const doubleConsonant = "*d"

func applyRules(word string, rules []porterRule) string {
	for _, r := range rules {
		var stem string
		switch {
		case r.suffix == doubleConsonant:
			if !endsDoubleConsonant(word) {
				continue
			}
			stem = word[:len(word)-2]
		case strings.HasSuffix(word, r.suffix):
			stem = word[:len(word)-len(r.suffix)]
		default:
			continue
		}
		if r.cond == nil || r.cond(stem) {
			return stem + r.replacement
		}
		return word
	}
	return word
}

func isVowelByte(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// isConsonant treats y as a consonant at the start of a word or after a vowel.
func isConsonant(word string, i int) bool {
	if isVowelByte(word[i]) {
		return false
	}
	if word[i] == 'y' {
		if i == 0 {
			return true
		}
		return !isConsonant(word, i-1)
	}
	return true
}

// measure counts the VC sequences in [C](VC)^m[V].
func measure(stem string) int {
	m := 0
	for i := 1; i < len(stem); i++ {
		if !isConsonant(stem, i-1) && isConsonant(stem, i) {
			m++
		}
	}
	return m
}

func positiveMeasure(stem string) bool {
	return measure(stem) > 0
}

func measureAboveOne(stem string) bool {
	return measure(stem) > 1
}

func containsVowel(stem string) bool {
	for i := range stem {
		if !isConsonant(stem, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(word string) bool {
	n := len(word)
	return n >= 2 && word[n-1] == word[n-2] && isConsonant(word, n-1)
}

// endsCVC is *o: consonant-vowel-consonant where the last is not w, x or y.
// A two-letter vowel-consonant word also counts.
func endsCVC(word string) bool {
	n := len(word)
	if n >= 3 &&
		isConsonant(word, n-3) && !isConsonant(word, n-2) && isConsonant(word, n-1) &&
		word[n-1] != 'w' && word[n-1] != 'x' && word[n-1] != 'y' {
		return true
	}
	return n == 2 && !isConsonant(word, 0) && isConsonant(word, 1)
}

func step1a(word string) string {
	if len(word) == 4 && strings.HasSuffix(word, "ies") {
		return word[:1] + "ie"
	}
	return applyRules(word, []porterRule{
		{"sses", "ss", nil},
		{"ies", "i", nil},
		{"ss", "ss", nil},
		{"s", "", nil},
	})
}

func step1b(word string) string {
	if strings.HasSuffix(word, "ied") {
		if len(word) == 4 {
			return word[:1] + "ie"
		}
		return word[:len(word)-3] + "i"
	}

	if strings.HasSuffix(word, "eed") {
		stem := word[:len(word)-3]
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return word
	}

	var stem string
	found := false
	for _, suffix := range []string{"ed", "ing"} {
		if strings.HasSuffix(word, suffix) {
			stem = word[:len(word)-len(suffix)]
			if containsVowel(stem) {
				found = true
				break
			}
		}
	}
	if !found {
		return word
	}

	last := stem[len(stem)-1:]
	return applyRules(stem, []porterRule{
		{"at", "ate", nil},
		{"bl", "ble", nil},
		{"iz", "ize", nil},
		{doubleConsonant, last, func(string) bool {
			return last != "l" && last != "s" && last != "z"
		}},
		{"", "e", func(s string) bool {
			return measure(s) == 1 && endsCVC(s)
		}},
	})
}

func step1c(word string) string {
	return applyRules(word, []porterRule{
		{"y", "i", func(stem string) bool {
			return len(stem) > 1 && isConsonant(stem, len(stem)-1)
		}},
	})
}

func step2(word string) string {
	if strings.HasSuffix(word, "alli") && positiveMeasure(word[:len(word)-4]) {
		return step2(word[:len(word)-4] + "al")
	}

	return applyRules(word, []porterRule{
		{"ational", "ate", positiveMeasure},
		{"tional", "tion", positiveMeasure},
		{"enci", "ence", positiveMeasure},
		{"anci", "ance", positiveMeasure},
		{"izer", "ize", positiveMeasure},
		{"bli", "ble", positiveMeasure},
		{"alli", "al", positiveMeasure},
		{"entli", "ent", positiveMeasure},
		{"eli", "e", positiveMeasure},
		{"ousli", "ous", positiveMeasure},
		{"ization", "ize", positiveMeasure},
		{"ation", "ate", positiveMeasure},
		{"ator", "ate", positiveMeasure},
		{"alism", "al", positiveMeasure},
		{"iveness", "ive", positiveMeasure},
		{"fulness", "ful", positiveMeasure},
		{"ousness", "ous", positiveMeasure},
		{"aliti", "al", positiveMeasure},
		{"iviti", "ive", positiveMeasure},
		{"biliti", "ble", positiveMeasure},
		{"fulli", "ful", positiveMeasure},
		// the l stays with the stem so short stems like "geo" qualify
		{"logi", "log", func(string) bool {
			return positiveMeasure(word[:len(word)-3])
		}},
	})
}

func step3(word string) string {
	return applyRules(word, []porterRule{
		{"icate", "ic", positiveMeasure},
		{"ative", "", positiveMeasure},
		{"alize", "al", positiveMeasure},
		{"iciti", "ic", positiveMeasure},
		{"ical", "ic", positiveMeasure},
		{"ful", "", positiveMeasure},
		{"ness", "", positiveMeasure},
	})
}

func step4(word string) string {
	return applyRules(word, []porterRule{
		{"al", "", measureAboveOne},
		{"ance", "", measureAboveOne},
		{"ence", "", measureAboveOne},
		{"er", "", measureAboveOne},
		{"ic", "", measureAboveOne},
		{"able", "", measureAboveOne},
		{"ible", "", measureAboveOne},
		{"ant", "", measureAboveOne},
		{"ement", "", measureAboveOne},
		{"ment", "", measureAboveOne},
		{"ent", "", measureAboveOne},
		{"ion", "", func(stem string) bool {
			return measureAboveOne(stem) && (strings.HasSuffix(stem, "s") || strings.HasSuffix(stem, "t"))
		}},
		{"ou", "", measureAboveOne},
		{"ism", "", measureAboveOne},
		{"ate", "", measureAboveOne},
		{"iti", "", measureAboveOne},
		{"ous", "", measureAboveOne},
		{"ive", "", measureAboveOne},
		{"ize", "", measureAboveOne},
	})
}

func step5a(word string) string {
	if !strings.HasSuffix(word, "e") {
		return word
	}
	stem := word[:len(word)-1]
	m := measure(stem)
	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return word
}

func step5b(word string) string {
	return applyRules(word, []porterRule{
		{"ll", "l", func(string) bool {
			return measureAboveOne(word[:len(word)-1])
		}},
	})
}
