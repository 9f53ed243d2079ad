// Package observability exposes Prometheus metrics for the framework core.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics for pattern and relationship
// generation. Each collector owns its registry so tests can create collectors
// freely without duplicate registration panics.
type Collector struct {
	registry *prometheus.Registry

	PatternsCreated         prometheus.Counter
	RelationshipsCreated    *prometheus.CounterVec
	RelationshipsSkipped    prometheus.Counter
	VocabularyDomainsLoaded prometheus.Counter
}

// NewCollector creates a metrics collector with the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	patternsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patterns_created_total",
			Help:      "Total number of patterns materialized from vocabularies",
		},
	)

	relationshipsCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relationships_created_total",
			Help:      "Total number of relationships generated",
		},
		[]string{"cross_domain"},
	)

	relationshipsSkipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relationships_skipped_total",
			Help:      "Total number of relationship samples skipped during generation",
		},
	)

	vocabularyDomainsLoaded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vocabulary_domains_loaded_total",
			Help:      "Total number of domain vocabularies loaded",
		},
	)

	registry.MustRegister(
		patternsCreated,
		relationshipsCreated,
		relationshipsSkipped,
		vocabularyDomainsLoaded,
	)

	return &Collector{
		registry:                registry,
		PatternsCreated:         patternsCreated,
		RelationshipsCreated:    relationshipsCreated,
		RelationshipsSkipped:    relationshipsSkipped,
		VocabularyDomainsLoaded: vocabularyDomainsLoaded,
	}
}

// Registry returns the collector's Prometheus registry for scraping or
// test inspection.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
