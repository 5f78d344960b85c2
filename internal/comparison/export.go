package comparison

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Export renders rec as indented JSON and names the download after the client.
func Export(rec Record) ([]byte, string, error) {
	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode comparison export: %w", err)
	}
	return body, "comparativa_" + fileSafe(rec.ClientName) + ".json", nil
}

func fileSafe(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "sin_nombre"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		default:
			return r
		}
	}, name)
}
