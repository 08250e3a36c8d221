package keymap

// Resolver maps key strings to intents.
type Resolver struct {
	bindings map[string]Intent   // key -> intent
	byIntent map[Intent][]string // intent -> keys, shown by the help overlay
}

// NewResolver creates a resolver from bindings. A later binding of the same
// key overrides an earlier one.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Intent),
		byIntent: make(map[Intent][]string),
	}
	for _, b := range bindings {
		keys := b.Key.Keys()
		for _, k := range keys {
			r.bindings[k] = b.Intent
		}
		r.byIntent[b.Intent] = append(r.byIntent[b.Intent], keys...)
	}
	for intent, keys := range r.byIntent {
		r.byIntent[intent] = dedupe(keys)
	}
	return r
}

// Route returns the intent bound to a key. It is pure: the same key always
// yields the same result, whatever the application state.
func (r *Resolver) Route(key string) (Intent, bool) {
	intent, ok := r.bindings[key]
	return intent, ok
}

// KeysFor returns the keys bound to an intent, in binding order.
func (r *Resolver) KeysFor(intent Intent) []string {
	return r.byIntent[intent]
}

var defaultResolver = NewResolver(All)

// Route resolves a key against the default bindings.
func Route(key string) (Intent, bool) {
	return defaultResolver.Route(key)
}

// KeysFor returns the keys bound to an intent in the default bindings.
func KeysFor(intent Intent) []string {
	return defaultResolver.KeysFor(intent)
}

// dedupe removes duplicate strings from a slice.
func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
