package usecase

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// ParseLinks decodes a JSON array of URL strings. Anything else yields an empty list
// and a warning, as does a null element; blank entries inside a valid array are kept.
func ParseLinks(raw string, log *slog.Logger) []string {
	if log == nil {
		log = slog.Default()
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var elems []*string
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		log.Warn("links payload ignored", "err", err)
		return []string{}
	}
	if elems == nil {
		// JSON null
		log.Warn("links payload ignored", "err", "not an array")
		return []string{}
	}

	links := make([]string, 0, len(elems))
	for i, link := range elems {
		if link == nil {
			log.Warn("links payload ignored", "err", "null element", "index", i)
			return []string{}
		}
		links = append(links, *link)
	}
	return links
}
