// Package generator synthesizes plausible patterns and relationships from a
// domain vocabulary, including deliberately cross-domain connections, to
// populate a collection for analysis and demonstration.
package generator

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"p3-backend/internal/config"
	"p3-backend/internal/domain/pattern"
	"p3-backend/internal/observability"
	pkgerrors "p3-backend/pkg/errors"
)

// BatchResult reports what a generation batch produced versus skipped.
// Batch operations never fail for one bad sample; they account for it here.
type BatchResult struct {
	PatternsCreated      int `json:"patterns_created"`
	RelationshipsCreated int `json:"relationships_created"`
	RelationshipsSkipped int `json:"relationships_skipped"`
}

// add accumulates another batch into this one.
func (b *BatchResult) add(other BatchResult) {
	b.PatternsCreated += other.PatternsCreated
	b.RelationshipsCreated += other.RelationshipsCreated
	b.RelationshipsSkipped += other.RelationshipsSkipped
}

// GenerateOptions overrides per-call generation behavior. A nil options
// value falls back to the generator's configuration.
type GenerateOptions struct {
	// StrengthMin and StrengthMax bound the uniform strength draw. Leaving
	// both zero falls back to the configured range; a degenerate range with
	// StrengthMin == StrengthMax pins every draw to that value, and an
	// inverted range is a validation error.
	StrengthMin float64
	StrengthMax float64

	// IncludeAllPatterns forces every relationship slot to be populated
	// instead of allowing empty slots.
	IncludeAllPatterns bool
}

// Generator populates pattern collections from loaded domain vocabularies.
// The randomness source is an explicit dependency so generation is
// reproducible in tests.
type Generator struct {
	cfg          config.GeneratorConfig
	logger       *zap.Logger
	metrics      *observability.Collector
	rng          *rand.Rand
	fileDecoder  *config.Loader
	validate     *validator.Validate
	vocabularies map[string]*DomainVocabulary
}

// NewGenerator creates a generator. A nil config or logger falls back to
// defaults; a nil rng gets a time-seeded source. Metrics are optional.
func NewGenerator(cfg *config.GeneratorConfig, logger *zap.Logger, metrics *observability.Collector, rng *rand.Rand) *Generator {
	if cfg == nil {
		defaults := config.DefaultGeneratorConfig()
		cfg = &defaults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{
		cfg:          *cfg,
		logger:       logger,
		metrics:      metrics,
		rng:          rng,
		fileDecoder:  config.NewLoader(),
		validate:     newVocabularyValidator(),
		vocabularies: make(map[string]*DomainVocabulary),
	}
}

// GenerateForDomain materializes one pattern per vocabulary name for the
// domain, adds them to the collection, then samples relationshipCount
// relationships between them. Invalid samples are logged and skipped, never
// fatal to the batch.
func (g *Generator) GenerateForDomain(collection *pattern.Collection, domain string, relationshipCount int, opts *GenerateOptions) (BatchResult, error) {
	var result BatchResult

	if collection == nil {
		return result, pkgerrors.NewValidation("target collection cannot be nil")
	}
	vocab, ok := g.vocabularies[domain]
	if !ok {
		return result, pkgerrors.NewNotFound("no vocabulary loaded for domain: " + domain)
	}

	options, err := g.resolveOptions(opts)
	if err != nil {
		return result, err
	}

	pools := make(map[pattern.Kind][]*pattern.Pattern, 3)
	for _, group := range []struct {
		kind  pattern.Kind
		names []string
	}{
		{pattern.KindProperty, vocab.Properties},
		{pattern.KindProcess, vocab.Processes},
		{pattern.KindPerspective, vocab.Perspectives},
	} {
		created := g.materializePatterns(collection, group.kind, group.names, domain)
		pools[group.kind] = created
		result.PatternsCreated += len(created)
	}

	for i := 0; i < relationshipCount; i++ {
		propID, procID, perspID := g.sampleSlots(pools, options.IncludeAllPatterns)

		strength := options.StrengthMin + g.rng.Float64()*(options.StrengthMax-options.StrengthMin)
		confidence := g.sampleConfidence()

		rel, err := pattern.NewRelationship(propID, procID, perspID, strength, confidence)
		if err == nil {
			err = collection.AddRelationship(rel)
		}
		if err != nil {
			g.logger.Warn("skipping invalid relationship sample",
				zap.String("domain", domain), zap.Error(err))
			result.RelationshipsSkipped++
			if g.metrics != nil {
				g.metrics.RelationshipsSkipped.Inc()
			}
			continue
		}

		result.RelationshipsCreated++
		if g.metrics != nil {
			g.metrics.RelationshipsCreated.WithLabelValues("false").Inc()
		}
	}

	g.logger.Info("generated domain data",
		zap.String("domain", domain),
		zap.Int("patterns", result.PatternsCreated),
		zap.Int("relationships", result.RelationshipsCreated),
		zap.Int("skipped", result.RelationshipsSkipped))
	return result, nil
}

// GenerateMultiDomain runs GenerateForDomain for each named domain, or for
// every loaded domain when domains is nil. Unknown domain names are skipped
// with a warning rather than failing the batch.
func (g *Generator) GenerateMultiDomain(collection *pattern.Collection, domains []string, relationshipsPerDomain int) (BatchResult, error) {
	var result BatchResult

	if collection == nil {
		return result, pkgerrors.NewValidation("target collection cannot be nil")
	}
	if domains == nil {
		domains = g.DomainNames()
	}

	for _, domain := range domains {
		if _, ok := g.vocabularies[domain]; !ok {
			g.logger.Warn("skipping unknown domain", zap.String("domain", domain))
			continue
		}
		batch, err := g.GenerateForDomain(collection, domain, relationshipsPerDomain, nil)
		if err != nil {
			return result, pkgerrors.Wrap(err, "multi-domain generation failed for "+domain)
		}
		result.add(batch)
	}
	return result, nil
}

// GenerateCrossDomainConnections builds connectionCount relationships that
// deliberately span two domains. It requires at least two domains with
// existing patterns in the collection. Attempts that cannot populate at
// least two slots, or whose endpoints all resolve into a single domain,
// are skipped and reported, not retried.
func (g *Generator) GenerateCrossDomainConnections(collection *pattern.Collection, connectionCount int, minStrength float64) (BatchResult, error) {
	var result BatchResult

	if collection == nil {
		return result, pkgerrors.NewValidation("target collection cannot be nil")
	}

	domains, pools := domainPools(collection)
	if len(domains) < 2 {
		return result, pkgerrors.NewValidation(
			fmt.Sprintf("cross-domain connections need at least 2 domains with patterns, have %d", len(domains)))
	}

	for i := 0; i < connectionCount; i++ {
		first := g.rng.Intn(len(domains))
		second := g.rng.Intn(len(domains) - 1)
		if second >= first {
			second++
		}
		fromDomain, toDomain := domains[first], domains[second]

		// One randomly chosen kind is drawn from the far domain so the
		// endpoints resolve across both domains, not just one with a
		// cross-domain label.
		farKind := pattern.Kinds()[g.rng.Intn(3)]

		var slots [3]pattern.ID
		spanned := make(map[string]bool, 2)
		populated := 0
		for k, kind := range pattern.Kinds() {
			primary, secondary := fromDomain, toDomain
			if kind == farKind {
				primary, secondary = toDomain, fromDomain
			}
			candidate, source := g.pickAcrossDomains(pools, kind, primary, secondary)
			if candidate != nil {
				slots[k] = candidate.ID
				spanned[source] = true
				populated++
			}
		}

		// A cross-domain connection needs at least two distinct-kind
		// endpoints, and they must come from both domains.
		if populated < 2 || len(spanned) < 2 {
			g.logger.Debug("skipping cross-domain sample that does not span both domains",
				zap.String("from", fromDomain), zap.String("to", toDomain))
			result.RelationshipsSkipped++
			if g.metrics != nil {
				g.metrics.RelationshipsSkipped.Inc()
			}
			continue
		}

		strength := minStrength + g.rng.Float64()*(1.0-minStrength)
		confidence := g.sampleConfidence()

		rel, err := pattern.NewRelationship(slots[0], slots[1], slots[2], strength, confidence)
		if err == nil {
			rel.MarkCrossDomain(fromDomain, toDomain)
			err = collection.AddRelationship(rel)
		}
		if err != nil {
			g.logger.Warn("skipping invalid cross-domain sample", zap.Error(err))
			result.RelationshipsSkipped++
			if g.metrics != nil {
				g.metrics.RelationshipsSkipped.Inc()
			}
			continue
		}

		result.RelationshipsCreated++
		if g.metrics != nil {
			g.metrics.RelationshipsCreated.WithLabelValues("true").Inc()
		}
	}

	g.logger.Info("generated cross-domain connections",
		zap.Int("created", result.RelationshipsCreated),
		zap.Int("skipped", result.RelationshipsSkipped))
	return result, nil
}

// materializePatterns creates one pattern per distinct vocabulary name.
// Duplicate names within one list collapse to a single pattern; the stored
// name keeps its original casing.
func (g *Generator) materializePatterns(collection *pattern.Collection, kind pattern.Kind, names []string, domain string) []*pattern.Pattern {
	created := make([]*pattern.Pattern, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		normalized := pattern.NormalizeName(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		description := fmt.Sprintf("%s pattern from the %s domain vocabulary", kind, domain)
		p, err := pattern.NewPattern(kind, name, description, domain, domain)
		if err == nil {
			err = collection.AddPattern(p)
		}
		if err != nil {
			g.logger.Warn("skipping invalid vocabulary name",
				zap.String("domain", domain),
				zap.String("name", name),
				zap.Error(err))
			continue
		}

		created = append(created, p)
		if g.metrics != nil {
			g.metrics.PatternsCreated.Inc()
		}
	}
	return created
}

// sampleSlots draws one pattern or an empty slot per kind. When every slot
// comes up empty it resamples a bounded number of times so relationships are
// not trivially meaningless.
func (g *Generator) sampleSlots(pools map[pattern.Kind][]*pattern.Pattern, includeAll bool) (propID, procID, perspID pattern.ID) {
	for attempt := 0; attempt <= g.cfg.MaxResampleAttempts; attempt++ {
		var slots [3]pattern.ID
		populated := 0
		for k, kind := range pattern.Kinds() {
			if p := g.samplePattern(pools[kind], includeAll); p != nil {
				slots[k] = p.ID
				populated++
			}
		}
		if populated > 0 || attempt == g.cfg.MaxResampleAttempts {
			return slots[0], slots[1], slots[2]
		}
	}
	return
}

// samplePattern picks a random pattern from the pool, or nil for an empty
// slot unless includeAll is set.
func (g *Generator) samplePattern(pool []*pattern.Pattern, includeAll bool) *pattern.Pattern {
	if len(pool) == 0 {
		return nil
	}
	if includeAll {
		return pool[g.rng.Intn(len(pool))]
	}
	// One extra bucket stands for the empty slot.
	idx := g.rng.Intn(len(pool) + 1)
	if idx == len(pool) {
		return nil
	}
	return pool[idx]
}

// pickAcrossDomains draws the kind's candidate from the primary domain's
// pool, falling back to the secondary's, and reports which domain supplied
// the draw.
func (g *Generator) pickAcrossDomains(pools map[string]map[pattern.Kind][]*pattern.Pattern, kind pattern.Kind, primary, secondary string) (*pattern.Pattern, string) {
	if pool := pools[primary][kind]; len(pool) > 0 {
		return pool[g.rng.Intn(len(pool))], primary
	}
	if pool := pools[secondary][kind]; len(pool) > 0 {
		return pool[g.rng.Intn(len(pool))], secondary
	}
	return nil, ""
}

// sampleConfidence draws confidence uniformly above the configured floor so
// generated links never carry a spurious zero confidence.
func (g *Generator) sampleConfidence() float64 {
	return g.cfg.ConfidenceFloor + g.rng.Float64()*(1.0-g.cfg.ConfidenceFloor)
}

// resolveOptions fills a nil options value or an unset strength range from
// configuration. An inverted caller-supplied range is rejected rather than
// silently replaced; a degenerate range is honored as given.
func (g *Generator) resolveOptions(opts *GenerateOptions) (GenerateOptions, error) {
	if opts == nil {
		return GenerateOptions{
			StrengthMin:        g.cfg.StrengthMin,
			StrengthMax:        g.cfg.StrengthMax,
			IncludeAllPatterns: g.cfg.IncludeAllPatterns,
		}, nil
	}

	resolved := *opts
	if resolved.StrengthMin == 0 && resolved.StrengthMax == 0 {
		resolved.StrengthMin = g.cfg.StrengthMin
		resolved.StrengthMax = g.cfg.StrengthMax
	}
	if resolved.StrengthMax < resolved.StrengthMin {
		return GenerateOptions{}, pkgerrors.NewValidation(
			fmt.Sprintf("strength range is inverted: [%v, %v]", resolved.StrengthMin, resolved.StrengthMax))
	}
	return resolved, nil
}

// domainPools indexes the collection's domain-labeled patterns by domain and
// kind, with domains sorted for deterministic sampling.
func domainPools(collection *pattern.Collection) ([]string, map[string]map[pattern.Kind][]*pattern.Pattern) {
	pools := make(map[string]map[pattern.Kind][]*pattern.Pattern)
	for _, p := range collection.Patterns() {
		if !p.HasDomain() {
			continue
		}
		byKind, ok := pools[p.Domain]
		if !ok {
			byKind = make(map[pattern.Kind][]*pattern.Pattern, 3)
			pools[p.Domain] = byKind
		}
		byKind[p.Kind] = append(byKind[p.Kind], p)
	}

	domains := make([]string, 0, len(pools))
	for domain := range pools {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains, pools
}
