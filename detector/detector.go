// Package detector wires the normalizer, vectorizer and classifier into one
// immutable service. Build it once at startup and share it; every method is safe
// for concurrent use.
package detector

import (
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"newsguard/ml"
	"newsguard/nlp"
)

// ErrEmptyInput is what callers report when IsBlank rejects the raw text.
var ErrEmptyInput = errors.New("please enter some news content first")

// Normalizer turns raw text into the token string the vectorizer expects.
type Normalizer interface {
	Normalize(text string) string
}

// Result is the outcome of classifying one piece of raw text.
type Result struct {
	Label      ml.Label `json:"label"`
	Raw        int      `json:"raw"`
	Score      float64  `json:"score"`
	Normalized string   `json:"normalized"`
	Cached     bool     `json:"cached"`
}

// Info describes the loaded artifacts.
type Info struct {
	VectorizerDim  int    `json:"vectorizer_dim"`
	ClassifierDim  int    `json:"classifier_dim"`
	ClassifierType string `json:"classifier_type"`
	Classes        []int  `json:"classes,omitempty"`
	CacheSize      int    `json:"cache_size"`
}

type verdict struct {
	raw   int
	score float64
}

type Detector struct {
	normalizer Normalizer
	vectorizer ml.Vectorizer
	classifier ml.Classifier
	cache      *lru.Cache[string, verdict]
	cacheSize  int
	logger     *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

func WithNormalizer(n Normalizer) Option {
	return func(d *Detector) {
		if n != nil {
			d.normalizer = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithCacheSize memoizes up to size predictions keyed by normalized text.
// Zero disables the cache.
func WithCacheSize(size int) Option {
	return func(d *Detector) {
		d.cacheSize = size
	}
}

// New builds a Detector around already loaded artifacts.
func New(vectorizer ml.Vectorizer, classifier ml.Classifier, opts ...Option) (*Detector, error) {
	if vectorizer == nil {
		return nil, errors.New("vectorizer is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}

	d := &Detector{
		vectorizer: vectorizer,
		classifier: classifier,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.normalizer == nil {
		d.normalizer = nlp.NewNormalizer()
	}

	if d.cacheSize < 0 {
		return nil, fmt.Errorf("cache size must not be negative, got %d", d.cacheSize)
	}
	if d.cacheSize > 0 {
		cache, err := lru.New[string, verdict](d.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		d.cache = cache
	}
	return d, nil
}

// Load reads both artifacts from disk and builds a Detector. Failures are *ml.LoadError.
func Load(vectorizerPath, classifierPath string, opts ...Option) (*Detector, error) {
	vectorizer, err := ml.LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}
	classifier, err := ml.LoadClassifier(classifierPath)
	if err != nil {
		return nil, err
	}
	return New(vectorizer, classifier, opts...)
}

// IsBlank reports whether raw is empty or whitespace only. Callers check it
// before classifying and show a warning instead of a verdict.
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

func (d *Detector) Normalize(raw string) string {
	return d.normalizer.Normalize(raw)
}

// Predict labels already normalized text.
func (d *Detector) Predict(normalized string) (ml.Label, error) {
	v, _, err := d.predict(normalized)
	if err != nil {
		return ml.Reliable, err
	}
	return ml.LabelFromRaw(v.raw), nil
}

// Classify normalizes raw and predicts its label. It does not check IsBlank;
// a blank input simply classifies the empty document.
func (d *Detector) Classify(raw string) (*Result, error) {
	normalized := d.normalizer.Normalize(raw)
	v, cached, err := d.predict(normalized)
	if err != nil {
		return nil, err
	}
	return &Result{
		Label:      ml.LabelFromRaw(v.raw),
		Raw:        v.raw,
		Score:      v.score,
		Normalized: normalized,
		Cached:     cached,
	}, nil
}

func (d *Detector) predict(normalized string) (verdict, bool, error) {
	if d.cache != nil {
		if v, ok := d.cache.Get(normalized); ok {
			return v, true, nil
		}
	}

	vectors := d.vectorizer.Transform([]string{normalized})
	if len(vectors) != 1 {
		return verdict{}, false, fmt.Errorf("vectorizer returned %d vectors for one document", len(vectors))
	}
	raw, score, err := d.classifier.Predict(vectors[0])
	if err != nil {
		return verdict{}, false, fmt.Errorf("predict: %w", err)
	}
	if raw != 0 && raw != 1 {
		d.logger.Warn("classifier returned a non-binary value, mapping to unreliable", zap.Int("raw", raw))
	}

	v := verdict{raw: raw, score: score}
	if d.cache != nil {
		d.cache.Add(normalized, v)
	}
	return v, false, nil
}

// CheckCompatibility returns the *ml.DimensionMismatchError every prediction
// would hit if the artifacts disagree on feature dimensionality.
func (d *Detector) CheckCompatibility() error {
	if got, want := d.vectorizer.Dim(), d.classifier.NumFeatures(); got != want {
		return &ml.DimensionMismatchError{Expected: want, Got: got}
	}
	return nil
}

func (d *Detector) Info() Info {
	info := Info{
		VectorizerDim:  d.vectorizer.Dim(),
		ClassifierDim:  d.classifier.NumFeatures(),
		ClassifierType: classifierKind(d.classifier),
		CacheSize:      d.cacheSize,
	}
	if lm, ok := d.classifier.(*ml.LinearModel); ok {
		info.Classes = lm.Classes()
	}
	return info
}

func classifierKind(c ml.Classifier) string {
	switch c.(type) {
	case *ml.LinearModel:
		return ml.KindLinear
	case *ml.DecisionTree:
		return ml.KindDecisionTree
	default:
		return fmt.Sprintf("%T", c)
	}
}
