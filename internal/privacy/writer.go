package privacy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Writer receives exported data keyed by context and subcontext path.
type Writer interface {
	ExportData(contextID int64, subcontext []string, data interface{}) error
	ExportUserPreference(component, key, value, description string) error
}

type ExportedPreference struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Document is the neutral shape of everything a DocumentWriter received.
type Document struct {
	Contexts    map[string]map[string]interface{}        `json:"contexts"`
	Preferences map[string]map[string]ExportedPreference `json:"preferences,omitempty"`
}

// DocumentWriter keeps exported data in memory until it is read back or
// flushed to disk as JSON files.
type DocumentWriter struct {
	contexts    map[int64]map[string]interface{}
	preferences map[string]map[string]ExportedPreference
}

func NewDocumentWriter() *DocumentWriter {
	return &DocumentWriter{
		contexts:    make(map[int64]map[string]interface{}),
		preferences: make(map[string]map[string]ExportedPreference),
	}
}

func subcontextPath(subcontext []string) string {
	return strings.Join(subcontext, "/")
}

func (w *DocumentWriter) ExportData(contextID int64, subcontext []string, data interface{}) error {
	if w.contexts[contextID] == nil {
		w.contexts[contextID] = make(map[string]interface{})
	}
	w.contexts[contextID][subcontextPath(subcontext)] = data
	return nil
}

func (w *DocumentWriter) ExportUserPreference(component, key, value, description string) error {
	if w.preferences[component] == nil {
		w.preferences[component] = make(map[string]ExportedPreference)
	}
	w.preferences[component][key] = ExportedPreference{Value: value, Description: description}
	return nil
}

// Data returns what was exported for a context at the given subcontext.
func (w *DocumentWriter) Data(contextID int64, subcontext ...string) (interface{}, bool) {
	data, ok := w.contexts[contextID][subcontextPath(subcontext)]
	return data, ok
}

func (w *DocumentWriter) Preference(component, key string) (ExportedPreference, bool) {
	pref, ok := w.preferences[component][key]
	return pref, ok
}

// ContextIDs lists the contexts that received data.
func (w *DocumentWriter) ContextIDs() []int64 {
	ids := make([]int64, 0, len(w.contexts))
	for id := range w.contexts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *DocumentWriter) Document() *Document {
	doc := &Document{
		Contexts:    make(map[string]map[string]interface{}, len(w.contexts)),
		Preferences: w.preferences,
	}
	for id, data := range w.contexts {
		doc.Contexts[strconv.FormatInt(id, 10)] = data
	}
	return doc
}

// Flush writes every exported item below dir as
// context-<id>/<subcontext>/data.json and preferences/<component>.json.
func (w *DocumentWriter) Flush(dir string) error {
	for contextID, items := range w.contexts {
		for path, data := range items {
			target := filepath.Join(dir, fmt.Sprintf("context-%d", contextID), filepath.FromSlash(path), "data.json")
			if err := writeJSON(target, data); err != nil {
				return err
			}
		}
	}

	for component, prefs := range w.preferences {
		target := filepath.Join(dir, "preferences", component+".json")
		if err := writeJSON(target, prefs); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
