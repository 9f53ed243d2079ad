package generator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DomainVocabulary is the generator's only external input: one domain's
// name together with the bare pattern names for each kind. Vocabularies are
// read-only once loaded.
type DomainVocabulary struct {
	Name         string   `yaml:"name" json:"name" validate:"required"`
	Properties   []string `yaml:"properties" json:"properties" validate:"dive,required"`
	Processes    []string `yaml:"processes" json:"processes" validate:"dive,required"`
	Perspectives []string `yaml:"perspectives" json:"perspectives" validate:"dive,required"`
}

// vocabularyFile is the on-disk shape of a vocabulary source. A file holds
// exactly one of: a single domain (name + lists), a combined map of domains,
// or a manifest pointing at one-file-per-domain sources.
type vocabularyFile struct {
	Name         string                       `yaml:"name" json:"name"`
	Properties   []string                     `yaml:"properties" json:"properties"`
	Processes    []string                     `yaml:"processes" json:"processes"`
	Perspectives []string                     `yaml:"perspectives" json:"perspectives"`
	Domains      map[string]*DomainVocabulary `yaml:"domains" json:"domains"`
	Manifest     map[string]string            `yaml:"manifest" json:"manifest"`
}

// LoadVocabulary reads domain vocabularies from a single file or from a
// directory of sources and merges them into the generator's vocabulary.
// Later loads overwrite earlier entries for the same domain name. Missing or
// unreadable sources and malformed entries are logged and skipped, never
// fatal. Returns the number of domains loaded by this call.
func (g *Generator) LoadVocabulary(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		g.logger.Warn("vocabulary source unavailable",
			zap.String("path", path), zap.Error(err))
		return 0
	}

	if !info.IsDir() {
		return g.loadVocabularyFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		g.logger.Warn("vocabulary directory unreadable",
			zap.String("path", path), zap.Error(err))
		return 0
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !supportedVocabularyFile(entry.Name()) {
			continue
		}
		loaded += g.loadVocabularyFile(filepath.Join(path, entry.Name()))
	}
	return loaded
}

// loadVocabularyFile decodes one source file and merges whatever domains it
// declares.
func (g *Generator) loadVocabularyFile(path string) int {
	var file vocabularyFile
	if err := g.fileDecoder.DecodeFile(path, &file); err != nil {
		g.logger.Warn("skipping malformed vocabulary source",
			zap.String("path", path), zap.Error(err))
		return 0
	}

	switch {
	case len(file.Manifest) > 0:
		return g.loadManifest(path, file.Manifest)

	case len(file.Domains) > 0:
		loaded := 0
		for _, name := range sortedKeys(file.Domains) {
			vocab := file.Domains[name]
			if vocab == nil {
				vocab = &DomainVocabulary{}
			}
			vocab.Name = name
			if g.mergeVocabulary(path, vocab) {
				loaded++
			}
		}
		return loaded

	case file.Name != "":
		vocab := &DomainVocabulary{
			Name:         file.Name,
			Properties:   file.Properties,
			Processes:    file.Processes,
			Perspectives: file.Perspectives,
		}
		if g.mergeVocabulary(path, vocab) {
			return 1
		}
		return 0

	default:
		g.logger.Warn("skipping vocabulary source with no recognizable shape",
			zap.String("path", path))
		return 0
	}
}

// loadManifest follows a manifest's domain name to source location index.
// Relative locations resolve against the manifest's directory.
func (g *Generator) loadManifest(manifestPath string, manifest map[string]string) int {
	base := filepath.Dir(manifestPath)
	loaded := 0

	names := make([]string, 0, len(manifest))
	for name := range manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		location := manifest[name]
		if !filepath.IsAbs(location) {
			location = filepath.Join(base, location)
		}

		var file vocabularyFile
		if err := g.fileDecoder.DecodeFile(location, &file); err != nil {
			g.logger.Warn("skipping manifest entry",
				zap.String("domain", name),
				zap.String("path", location),
				zap.Error(err))
			continue
		}

		// The manifest key names the domain regardless of the file's own
		// name field.
		vocab := &DomainVocabulary{
			Name:         name,
			Properties:   file.Properties,
			Processes:    file.Processes,
			Perspectives: file.Perspectives,
		}
		if g.mergeVocabulary(location, vocab) {
			loaded++
		}
	}
	return loaded
}

// mergeVocabulary validates one domain entry and stores it, overwriting any
// earlier entry for the same domain name.
func (g *Generator) mergeVocabulary(source string, vocab *DomainVocabulary) bool {
	if err := g.validate.Struct(vocab); err != nil {
		g.logger.Warn("skipping invalid vocabulary entry",
			zap.String("source", source),
			zap.String("domain", vocab.Name),
			zap.Error(err))
		return false
	}

	if _, exists := g.vocabularies[vocab.Name]; exists {
		g.logger.Info("overwriting vocabulary entry",
			zap.String("domain", vocab.Name),
			zap.String("source", source))
	}
	g.vocabularies[vocab.Name] = vocab
	if g.metrics != nil {
		g.metrics.VocabularyDomainsLoaded.Inc()
	}
	return true
}

// DomainNames returns the loaded vocabulary domain names, sorted.
func (g *Generator) DomainNames() []string {
	names := make([]string, 0, len(g.vocabularies))
	for name := range g.vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vocabulary looks up one loaded domain vocabulary by name.
func (g *Generator) Vocabulary(name string) (*DomainVocabulary, bool) {
	vocab, ok := g.vocabularies[name]
	return vocab, ok
}

func supportedVocabularyFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func sortedKeys(m map[string]*DomainVocabulary) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// newVocabularyValidator builds the validator shared by vocabulary loading.
func newVocabularyValidator() *validator.Validate {
	return validator.New()
}
