// Package knowledge loads and serves the read-only knowledge base: flow
// signatures, matching vocabularies, per-flow validation documents, and the
// known-error catalog. Everything is loaded once at startup; the store is
// safe for concurrent reads.
package knowledge

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed defaults
var defaultsFS embed.FS

// Store holds the loaded knowledge base.
type Store struct {
	catalog  []FlowSignature
	matching MatchingConfig
	docs     map[string]FlowDocument // keyed by lowercase flow name
	errors   ErrorCatalog
}

// Load builds a Store from the embedded defaults, then overlays any
// flows.yaml, matching.yaml, errors.yaml, or documents/**/*.yaml found under
// dir. A missing or empty directory is not an error; the defaults stand.
func Load(dir string) (*Store, error) {
	s := &Store{docs: map[string]FlowDocument{}}

	if err := s.loadFS(defaultsFS, "defaults"); err != nil {
		return nil, fmt.Errorf("loading embedded knowledge: %w", err)
	}

	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			if err := s.loadFS(os.DirFS(dir), "."); err != nil {
				return nil, fmt.Errorf("loading knowledge from %s: %w", dir, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing knowledge dir %s: %w", dir, err)
		}
	}

	s.normalize()
	return s, nil
}

// loadFS reads known knowledge files below root in fsys, replacing whichever
// sections those files define.
func (s *Store) loadFS(fsys fs.FS, root string) error {
	read := func(name string, v any) (bool, error) {
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return false, fmt.Errorf("parsing %s: %w", name, err)
		}
		return true, nil
	}

	var ff flowsFile
	if ok, err := read("flows.yaml", &ff); err != nil {
		return err
	} else if ok && len(ff.Flows) > 0 {
		s.catalog = ff.Flows
	}

	var mc MatchingConfig
	if ok, err := read("matching.yaml", &mc); err != nil {
		return err
	} else if ok && (len(mc.ActionWords) > 0 || len(mc.EntityWords) > 0) {
		s.matching = mc
	}

	var ec ErrorCatalog
	if ok, err := read("errors.yaml", &ec); err != nil {
		return err
	} else if ok {
		s.errors = ec
	}

	pattern := filepath.ToSlash(filepath.Join(root, "documents/**/*.yaml"))
	paths, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("scanning documents: %w", err)
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		var doc FlowDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			// A malformed override document degrades to "no document",
			// not a startup failure.
			log.Printf("knowledge: skipping malformed document %s: %v", p, err)
			continue
		}
		if doc.Flow == "" {
			doc.Flow = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		s.docs[strings.ToLower(doc.Flow)] = doc
	}
	return nil
}

// normalize trims and case-insensitively deduplicates every signature set and
// guarantees the tokenizer invariant that each entity word has an alias entry
// mapping to itself.
func (s *Store) normalize() {
	for i := range s.catalog {
		s.catalog[i].Actions = dedupe(s.catalog[i].Actions)
		s.catalog[i].Entities = dedupe(s.catalog[i].Entities)
		s.catalog[i].Keywords = dedupe(s.catalog[i].Keywords)
	}

	s.matching.ActionWords = dedupe(s.matching.ActionWords)
	s.matching.EntityWords = dedupe(s.matching.EntityWords)

	if s.matching.Aliases == nil {
		s.matching.Aliases = map[string]string{}
	}
	aliases := make(map[string]string, len(s.matching.Aliases))
	for k, v := range s.matching.Aliases {
		aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	for _, e := range s.matching.EntityWords {
		if _, ok := aliases[e]; !ok {
			aliases[e] = e
		}
	}
	s.matching.Aliases = aliases
}

// dedupe lowercases, trims, and removes duplicates while preserving first-seen
// order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Catalog returns the loaded flow signatures.
func (s *Store) Catalog() []FlowSignature { return s.catalog }

// MatchingConfig returns the tokenizer vocabularies and aliases.
func (s *Store) MatchingConfig() MatchingConfig { return s.matching }

// FlowDocument returns the validation document for the named flow. Absence
// means "no document-derived constraints", not an error.
func (s *Store) FlowDocument(flow string) (FlowDocument, bool) {
	doc, ok := s.docs[strings.ToLower(strings.TrimSpace(flow))]
	return doc, ok
}

// FlowNames returns the catalog flow names in catalog order.
func (s *Store) FlowNames() []string {
	names := make([]string, len(s.catalog))
	for i, sig := range s.catalog {
		names[i] = sig.Name
	}
	return names
}

// ErrorCatalog returns the loaded known-error catalog.
func (s *Store) ErrorCatalog() ErrorCatalog { return s.errors }
