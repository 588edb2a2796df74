// Package locale renders message ids into user-facing strings.
//
// Catalogs map message ids to templates with {$var} placeholders. The
// built-in English catalog is always present; additional locales are
// loaded from JSON files and fall back to English for missing ids. When
// an id is unknown everywhere, the id itself is returned so a broken
// translation never hides a message entirely.
package locale

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Args holds template variables for a message.
type Args map[string]any

var (
	mu       sync.RWMutex
	catalogs = map[string]map[string]string{"en": englishCatalog}
	matcher  = language.NewMatcher([]language.Tag{language.English})
	tags     = []language.Tag{language.English}
)

// LoadDir loads per-locale catalogs from dir. Each <locale>.json file
// holds a flat object of message id to template. Entries overlay the
// built-in English catalog for "en".
func LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		code := strings.TrimSuffix(name, ".json")

		tag, err := language.Parse(code)
		if err != nil {
			logrus.WithField("file", name).Warn("skipping catalog with invalid locale code")
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		loaded := map[string]string{}
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("catalog %s: %w", name, err)
		}

		existing, ok := catalogs[code]
		if !ok {
			existing = map[string]string{}
			catalogs[code] = existing
			tags = append(tags, tag)
		}
		for id, tmpl := range loaded {
			existing[id] = tmpl
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		// English stays first so it remains the matcher fallback.
		if tags[i] == language.English {
			return true
		}
		if tags[j] == language.English {
			return false
		}
		return tags[i].String() < tags[j].String()
	})
	matcher = language.NewMatcher(tags)
	return nil
}

// Resolve maps a requested locale code to the best available catalog code.
func Resolve(code string) string {
	mu.RLock()
	defer mu.RUnlock()
	if _, ok := catalogs[code]; ok {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "en"
	}
	_, index, _ := matcher.Match(tag)
	return tags[index].String()
}

// Get renders a message id for a locale, substituting {$var} placeholders
// from args. Unknown ids are returned verbatim.
func Get(code, id string, args Args) string {
	resolved := Resolve(code)

	mu.RLock()
	tmpl, ok := catalogs[resolved][id]
	if !ok && resolved != "en" {
		tmpl, ok = catalogs["en"][id]
	}
	mu.RUnlock()

	if !ok {
		return id
	}
	return substitute(tmpl, args)
}

func substitute(tmpl string, args Args) string {
	if len(args) == 0 || !strings.Contains(tmpl, "{$") {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for key, value := range args {
		pairs = append(pairs, "{$"+key+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// FormatListAnd joins items with the locale's "and" conjunction,
// e.g. "A, B, and C" for English.
func FormatListAnd(code string, items []string) string {
	return formatList(code, items, "list-and")
}

// FormatListOr joins items with the locale's "or" conjunction.
func FormatListOr(code string, items []string) string {
	return formatList(code, items, "list-or")
}

func formatList(code string, items []string, conjunctionID string) string {
	conjunction := Get(code, conjunctionID, nil)
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conjunction + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", " + conjunction + " " + items[len(items)-1]
	}
}

// AvailableLanguages returns locale code to display name for every loaded
// catalog. Each language is named in its own locale when possible.
func AvailableLanguages() map[string]string {
	mu.RLock()
	codes := make([]string, 0, len(catalogs))
	for code := range catalogs {
		codes = append(codes, code)
	}
	mu.RUnlock()

	result := make(map[string]string, len(codes))
	for _, code := range codes {
		name := Get(code, "language-"+code, nil)
		if name == "language-"+code {
			name = Get("en", "language-"+code, nil)
		}
		result[code] = name
	}
	return result
}
