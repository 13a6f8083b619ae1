package datefilter

import "sync"

// FallbackResolver resolves fallback locale chains
type FallbackResolver interface {
	Resolve(locale string) []string
}

// StaticFallbackResolver maps a locale to an explicit list of data locales.
type StaticFallbackResolver struct {
	mu     sync.RWMutex
	chains map[string][]string
}

var _ FallbackResolver = &StaticFallbackResolver{}

func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[string][]string)}
}

// Set registers the fallback chain for locale, replacing any previous one.
func (s *StaticFallbackResolver) Set(locale string, fallbacks ...string) {
	if s == nil {
		return
	}
	key := normalizeLocale(locale)
	if key == "" {
		return
	}

	chain := make([]string, 0, len(fallbacks))
	for _, fallback := range fallbacks {
		if value := normalizeLocale(fallback); value != "" {
			chain = append(chain, value)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chains == nil {
		s.chains = make(map[string][]string)
	}
	s.chains[key] = chain
}

func (s *StaticFallbackResolver) Resolve(locale string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.chains[normalizeLocale(locale)]
	if len(chain) == 0 {
		return nil
	}
	return append([]string(nil), chain...)
}

type resolverChain []FallbackResolver

// chainResolvers concatenates the chains of resolvers, skipping nils.
func chainResolvers(resolvers ...FallbackResolver) FallbackResolver {
	var chain resolverChain
	for _, resolver := range resolvers {
		if resolver == nil {
			continue
		}
		if static, ok := resolver.(*StaticFallbackResolver); ok && static == nil {
			continue
		}
		chain = append(chain, resolver)
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}

func (c resolverChain) Resolve(locale string) []string {
	var out []string
	for _, resolver := range c {
		out = append(out, resolver.Resolve(locale)...)
	}
	return out
}
