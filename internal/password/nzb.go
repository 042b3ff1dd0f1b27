package password

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// namePattern matches one "{{password}}" marker inside an NZB filename.
var namePattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Entry is a title with an optional password. Password is empty when the
// filename carried no marker.
type Entry struct {
	Title    string
	Password string
}

// ExtractFromName pulls the title and password out of an NZB filename such
// as "Some.Release{{s3cret}}.nzb". Two or more markers make the password
// ambiguous and are rejected.
func ExtractFromName(name string) (Entry, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	matches := namePattern.FindAllStringSubmatch(stem, -1)
	if len(matches) >= 2 {
		return Entry{}, fmt.Errorf("ambiguous passwords in %q", name)
	}
	title := strings.TrimSpace(namePattern.ReplaceAllString(stem, ""))
	if len(matches) == 0 {
		return Entry{Title: title}, nil
	}
	return Entry{Title: title, Password: matches[0][1]}, nil
}

type nzbDocument struct {
	XMLName xml.Name `xml:"nzb"`
	Head    struct {
		Meta []struct {
			Type  string `xml:"type,attr"`
			Value string `xml:",chardata"`
		} `xml:"meta"`
	} `xml:"head"`
}

// ExtractFromContent reads an NZB document and returns the first
// <meta type="password"> value from its head, if any.
func ExtractFromContent(r io.Reader) (string, bool) {
	var doc nzbDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		log.Debug().Err(err).Msg("could not parse NZB content")
		return "", false
	}
	for _, meta := range doc.Head.Meta {
		if meta.Type != "password" {
			continue
		}
		if value := strings.TrimSpace(meta.Value); value != "" {
			return value, true
		}
	}
	return "", false
}

// HarvestDir walks a directory tree and collects title/password pairs from
// every .nzb file. The filename marker wins; the document head is consulted
// only when the name carries none. Files yielding no password are skipped.
func HarvestDir(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("no directory at %q", dir)
	}

	store := NewStore()
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".nzb") {
			return nil
		}

		entry, err := ExtractFromName(d.Name())
		if err != nil {
			return err
		}
		if entry.Password == "" {
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			pw, ok := ExtractFromContent(file)
			file.Close()
			if ok {
				entry.Password = pw
			}
		}
		if entry.Title == "" || entry.Password == "" {
			log.Debug().Str("path", path).Msg("no password found")
			return nil
		}
		log.Debug().Str("title", entry.Title).Msg("harvested password")
		return store.Add(entry.Title, entry.Password)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Harvest runs HarvestDir over several directories and merges the results.
func Harvest(dirs []string) (*Store, error) {
	store := NewStore()
	for _, dir := range dirs {
		dirStore, err := HarvestDir(dir)
		if err != nil {
			return nil, err
		}
		store.Merge(dirStore)
	}
	return store, nil
}
