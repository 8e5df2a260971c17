// Package questions produces the question set for a new interview session:
// model-generated when possible, otherwise drawn from an embedded static bank.
package questions

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultRole is used when a job role has no questions of its own.
const DefaultRole = "Software Engineer"

//go:embed bank.yaml
var bankYAML []byte

type bankFile struct {
	Roles []struct {
		Name      string           `yaml:"name"`
		Questions []types.Question `yaml:"questions"`
	} `yaml:"roles"`
}

// StaticBank holds fallback questions grouped by job role.
type StaticBank struct {
	roles map[string][]types.Question
}

// LoadStaticBank parses a YAML static bank.
func LoadStaticBank(r io.Reader) (*StaticBank, error) {
	var file bankFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode static bank: %w", err)
	}

	bank := &StaticBank{roles: make(map[string][]types.Question, len(file.Roles))}
	for _, role := range file.Roles {
		name := strings.TrimSpace(role.Name)
		if name == "" {
			return nil, fmt.Errorf("static bank role without a name")
		}
		for i, q := range role.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("static bank role %q question %d has no text", name, i)
			}
		}
		bank.roles[name] = role.Questions
	}
	if len(bank.roles[DefaultRole]) == 0 {
		return nil, fmt.Errorf("static bank has no %q questions", DefaultRole)
	}
	return bank, nil
}

// DefaultStaticBank loads the embedded static bank.
func DefaultStaticBank() (*StaticBank, error) {
	return LoadStaticBank(bytes.NewReader(bankYAML))
}

// roleNames returns the sorted role names in the bank.
func (b *StaticBank) roleNames() []string {
	names := make([]string, 0, len(b.roles))
	for name := range b.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pick returns up to n shuffled questions for role, using DefaultRole when
// the role is unknown.
func (b *StaticBank) Pick(role string, n int) []types.Question {
	pool, ok := b.roles[strings.TrimSpace(role)]
	if !ok {
		pool = b.roles[DefaultRole]
	}

	shuffled := append([]types.Question(nil), pool...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
