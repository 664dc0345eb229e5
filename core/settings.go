// Persisted device settings.
// Settings are a small JSON document (current program name, per-program
// state) behind a SettingsStore. The store is loaded exactly once at boot
// and owned explicitly by whoever needs it; there is no lazy module-level
// cache.
package core

import "encoding/json"

// SettingsStore persists the raw settings document. The reference target
// keeps it in a reserved flash sector; the host tools use a file.
type SettingsStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Settings is the decoded settings document.
type Settings struct {
	store SettingsStore
	doc   map[string]any
}

// LoadSettings reads and decodes the settings document. A missing or
// corrupt document yields empty settings rather than an error; boot must
// proceed with defaults in that case.
func LoadSettings(store SettingsStore) *Settings {
	s := &Settings{store: store, doc: make(map[string]any)}
	if store == nil {
		return s
	}
	data, err := store.Load()
	if err != nil || len(data) == 0 {
		return s
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		Debugf("settings: discarding corrupt document")
		return s
	}
	s.doc = doc
	return s
}

// Get walks the document along path and returns the value found there.
func (s *Settings) Get(path ...string) (any, bool) {
	var cur any = s.doc
	for _, name := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[name]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string at path, or "" when absent or not a string.
func (s *Settings) GetString(path ...string) string {
	v, ok := s.Get(path...)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Update sets the value at path, creating intermediate objects as needed.
// The document is not persisted until Save is called.
func (s *Settings) Update(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := s.doc
	for _, name := range path[:len(path)-1] {
		next, ok := cur[name].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[name] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Encode returns the document in its serialized form, for transfer over
// the control link.
func (s *Settings) Encode() ([]byte, error) {
	return json.Marshal(s.doc)
}

// Replace swaps in a whole new document and persists it. A document that
// does not decode is rejected and the current one kept.
func (s *Settings) Replace(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.doc = doc
	return s.Save()
}

// Save encodes the document and writes it through the store.
func (s *Settings) Save() error {
	if s.store == nil {
		return nil
	}
	data, err := json.Marshal(s.doc)
	if err != nil {
		return err
	}
	return s.store.Save(data)
}
