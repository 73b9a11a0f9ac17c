package nlp

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Scenario(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, "cat run quickli", n.Normalize("The cats are running quickly!!"))
}

func TestNormalize_Cases(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "   \t\n", ""},
		{"digits and punctuation", "123 456!!! ... ,,, 7.89", ""},
		{"only stopwords", "The and of it is", ""},
		{"digits split words", "covid19vaccine", "covid vaccin"},
		{"non latin script", "Привет мир 你好", ""},
		{"accents are dropped", "café", "caf"},
		{"mixed case", "HELLO World", "hello world"},
		{"apostrophes split", "don't panic", "panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

var normalizedShape = regexp.MustCompile(`^([a-z]+( [a-z]+)*)?$`)

func TestNormalize_OutputAlphabet(t *testing.T) {
	n := NewNormalizer()
	rnd := rand.New(rand.NewSource(42))
	alphabet := []rune("abcXYZ 019!?.,;:'\"\t\n-_éü中Жabcdefghijklmnopqrstuvwxyz")

	for i := 0; i < 500; i++ {
		length := rnd.Intn(80)
		var sb strings.Builder
		for j := 0; j < length; j++ {
			sb.WriteRune(alphabet[rnd.Intn(len(alphabet))])
		}
		input := sb.String()
		out := n.Normalize(input)
		require.Truef(t, normalizedShape.MatchString(out), "input %q produced %q", input, out)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer()
	input := "Breaking: Scientists confirm the moon is made of cheese, sources say."
	assert.Equal(t, n.Normalize(input), n.Normalize(input))
}

func TestNormalize_InjectedCollaborators(t *testing.T) {
	stemmed := make([]string, 0)
	stemmer := StemmerFunc(func(token string) string {
		stemmed = append(stemmed, token)
		return strings.ToUpper(token[:1]) + token[1:]
	})
	n := NewNormalizer(WithStopwords(NewWordSet("fake")), WithStemmer(stemmer))

	// the fake stemmer's output is returned verbatim
	assert.Equal(t, "The News", n.Normalize("the FAKE news"))
	assert.Equal(t, []string{"the", "news"}, stemmed)
}

func TestLettersOnly(t *testing.T) {
	assert.Equal(t, "a b  c", LettersOnly("a1b2,c"))
	assert.Equal(t, "   ", LettersOnly("é中!"))
	assert.Equal(t, "", LettersOnly(""))
}

func TestPorterStemmer(t *testing.T) {
	s := PorterStemmer{}
	tests := map[string]string{
		"cats":       "cat",
		"running":    "run",
		"quickly":    "quickli",
		"caresses":   "caress",
		"ponies":     "poni",
		"relational": "relat",
		"hopeful":    "hope",
		"news":       "new",
		"today":      "todai",
	}
	for in, want := range tests {
		assert.Equal(t, want, s.Stem(in), "stem(%q)", in)
	}
}

// Expected values are nltk.stem.PorterStemmer() output in its default mode.
func TestNLTKPorterStemmer(t *testing.T) {
	s := NLTKPorterStemmer{}
	tests := []struct {
		word string
		want string
	}{
		// irregular forms
		{"news", "news"},
		{"dying", "die"},
		{"lying", "lie"},
		{"skies", "sky"},
		{"sky", "sky"},
		{"innings", "inning"},
		{"proceed", "proceed"},
		{"exceed", "exceed"},
		// y -> i only after a consonant
		{"says", "say"},
		{"today", "today"},
		{"play", "play"},
		{"enjoy", "enjoy"},
		{"happy", "happi"},
		{"quickly", "quickli"},
		// four-letter ies/ied
		{"dies", "die"},
		{"died", "die"},
		{"flies", "fli"},
		{"spied", "spi"},
		// short words pass through
		{"as", "as"},
		{"is", "is"},
		// classic rules still apply
		{"cats", "cat"},
		{"running", "run"},
		{"hopping", "hop"},
		{"filing", "file"},
		{"agreed", "agre"},
		{"feed", "feed"},
		{"caresses", "caress"},
		{"ponies", "poni"},
		{"relational", "relat"},
		{"hopeful", "hope"},
		{"triplicate", "triplic"},
		{"generalization", "gener"},
		{"geology", "geolog"},
		{"vaccine", "vaccin"},
		{"covid", "covid"},
		{"shocking", "shock"},
		{"hoax", "hoax"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Stem(tt.word), "stem(%q)", tt.word)
	}
}

func TestNormalize_NLTKStems(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, "break news say today", n.Normalize("BREAKING NEWS says today"))
	assert.Equal(t, "play die sky", n.Normalize("Play, dying skies!"))

	classic := NewNormalizer(WithStemmer(PorterStemmer{}))
	assert.Equal(t, "new todai", classic.Normalize("news today"))
}

func TestStemmerByName(t *testing.T) {
	for name, want := range map[string]Stemmer{
		"":       NLTKPorterStemmer{},
		"nltk":   NLTKPorterStemmer{},
		"porter": PorterStemmer{},
	} {
		got, err := StemmerByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := StemmerByName("snowball")
	assert.Error(t, err)
}

func TestEnglishStopwords(t *testing.T) {
	set := English()
	assert.Equal(t, 179, set.Len())
	for _, w := range []string{"the", "are", "don't", "wouldn", "i"} {
		assert.True(t, set.IsStopword(w), w)
	}
	assert.False(t, set.IsStopword("news"))
}

func TestLoadStopwords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nFoo\n\nbar\n"), 0o600))

	set, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.IsStopword("foo"))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o600))
	_, err = LoadStopwords(empty)
	assert.Error(t, err)

	_, err = LoadStopwords(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
