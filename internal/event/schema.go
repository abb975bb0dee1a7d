package event

import "sync"

// Schemas maps event kinds to the payload fields they require. A kind
// without a registered schema accepts any payload. Validation is a shape
// check only: every listed field must be an own key of the payload, but
// values may have any type, including nil.
type Schemas struct {
	mu     sync.RWMutex
	fields map[Kind][]string
}

// NewSchemas creates an empty schema registry.
func NewSchemas() *Schemas {
	return &Schemas{
		fields: make(map[Kind][]string),
	}
}

// Register declares the required payload fields for a kind, replacing any
// previously registered list. Registering with no fields removes the
// schema, making the kind accept any payload.
func (s *Schemas) Register(kind Kind, required ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(required) == 0 {
		delete(s.fields, kind)
		return
	}
	fields := make([]string, len(required))
	copy(fields, required)
	s.fields[kind] = fields
}

// Fields returns the required field list for a kind, or nil if the kind
// has no schema.
func (s *Schemas) Fields(kind Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields := s.fields[kind]
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Validate reports whether the payload satisfies the kind's schema.
func (s *Schemas) Validate(kind Kind, payload Payload) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.fields[kind]
	if !ok {
		return true
	}
	for _, f := range fields {
		if _, present := payload[f]; !present {
			return false
		}
	}
	return true
}

// MissingFields returns the schema fields absent from the payload, in
// registration order. Returns nil when the payload validates.
func (s *Schemas) MissingFields(kind Kind, payload Payload) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.fields[kind]
	if !ok {
		return nil
	}
	var missing []string
	for _, f := range fields {
		if _, present := payload[f]; !present {
			missing = append(missing, f)
		}
	}
	return missing
}
