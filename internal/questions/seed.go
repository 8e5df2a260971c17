package questions

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-coach/internal/types"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedQuestion is a question bank entry with its filtering metadata.
type SeedQuestion struct {
	ID         string   `yaml:"id" validate:"required"`
	Text       string   `yaml:"text" validate:"required"`
	Category   string   `yaml:"category" validate:"required"`
	Difficulty string   `yaml:"difficulty" validate:"required,oneof=Entry Mid Senior"`
	Tags       []string `yaml:"tags"`
}

// Question converts the entry into a session question.
func (q SeedQuestion) Question() types.Question {
	return types.Question{ID: q.ID, Text: q.Text, Category: q.Category}
}

type seedFile struct {
	Questions []SeedQuestion `yaml:"questions"`
}

// LoadSeed parses and validates a YAML seed file. Category and difficulty
// are canonicalized before validation.
func LoadSeed(r io.Reader) ([]SeedQuestion, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	validate := validator.New()
	seen := make(map[string]struct{}, len(file.Questions))
	for i := range file.Questions {
		q := &file.Questions[i]
		q.Category = types.CanonicalTag(q.Category)
		q.Difficulty = types.CanonicalTag(q.Difficulty)
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("seed question %d (%s): %w", i, q.ID, err)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("seed question %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return file.Questions, nil
}

// DefaultSeed returns the embedded seed questions.
func DefaultSeed() ([]SeedQuestion, error) {
	return LoadSeed(bytes.NewReader(seedYAML))
}
