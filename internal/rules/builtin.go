package rules

import (
	"embed"
	"fmt"
	"os"
	"sort"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
	"github.com/sakurs-go/sakurs/internal/validator"
)

//go:embed langs/*.toml
var builtinFS embed.FS

func readFile(path string) ([]byte, error) {
	if err := validator.ValidateFileExists(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeNotFound, fmt.Sprintf("reading rule file %s", path))
	}
	return data, nil
}

// ForLanguage loads a built-in rule set by its ISO-ish language code
// ("en", "ja"). Returns an InvalidRules error for unknown codes.
func ForLanguage(code string) (*RuleSet, error) {
	data, err := builtinFS.ReadFile("langs/" + code + ".toml")
	if err != nil {
		return nil, apperrors.InvalidRulesError(fmt.Sprintf("no built-in rule set for language %q", code))
	}
	return LoadBytes(data)
}

// List returns the language codes with a built-in rule set, sorted.
func List() []string {
	entries, err := builtinFS.ReadDir("langs")
	if err != nil {
		return nil
	}
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if len(name) > 5 && name[len(name)-5:] == ".toml" {
			codes = append(codes, name[:len(name)-5])
		}
	}
	sort.Strings(codes)
	return codes
}
