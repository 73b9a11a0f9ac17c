package detector

import (
	"go.uber.org/zap"

	"newsguard/config"
	"newsguard/nlp"
)

// NewNormalizer builds the normalizer cfg describes: the configured stemmer
// and, when StopwordsPath is set, that stopword list instead of the English one.
func NewNormalizer(cfg config.NLPConfig) (*nlp.Normalizer, error) {
	stemmer, err := nlp.StemmerByName(cfg.Stemmer)
	if err != nil {
		return nil, err
	}
	opts := []nlp.Option{nlp.WithStemmer(stemmer)}

	if cfg.StopwordsPath != "" {
		words, err := nlp.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nlp.WithStopwords(words))
	}
	return nlp.NewNormalizer(opts...), nil
}

// FromConfig loads the artifacts named in cfg.Model and wires them to the
// normalizer from cfg.NLP. Artifact failures are *ml.LoadError.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Detector, error) {
	normalizer, err := NewNormalizer(cfg.NLP)
	if err != nil {
		return nil, err
	}
	return Load(cfg.Model.VectorizerPath, cfg.Model.ClassifierPath,
		WithNormalizer(normalizer),
		WithCacheSize(cfg.Model.CacheSize),
		WithLogger(logger),
	)
}
