package dal

import (
	"fmt"
	"os"
	"strings"
)

// LoadSQLFile reads a statement from a .sql file. Handy for long reporting
// queries kept next to the code that runs them.
func LoadSQLFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("dal: read sql file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("dal: sql file %s is empty", path)
	}
	return text, nil
}
