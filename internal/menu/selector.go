package menu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	dErrors "keywatch/pkg/domain-errors"
)

// Variant identifies one pre-rendered menu.
type Variant struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Table maps State.Key to a Variant.
type Table map[string]Variant

type Selector struct {
	table Table
}

// NewSelector validates that table covers every reachable state.
func NewSelector(table Table) (*Selector, error) {
	if err := Validate(table); err != nil {
		return nil, err
	}
	return &Selector{table: table}, nil
}

// Validate reports the first few reachable states missing from table.
func Validate(table Table) error {
	var missing []string
	for _, s := range Reachable() {
		v, ok := table[s.Key()]
		if !ok || v.ID == "" {
			missing = append(missing, s.Key())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	shown := missing
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return dErrors.New(dErrors.CodeInvariantViolation,
		fmt.Sprintf("menu table missing %d reachable states: %s", len(missing), strings.Join(shown, ", ")))
}

// Select returns the variant for s. Unreachable states are rejected rather
// than mapped to a fallback.
func (sel *Selector) Select(s State) (Variant, error) {
	if !s.Valid() {
		return Variant{}, dErrors.New(dErrors.CodeInvariantViolation, "unreachable menu state: "+s.Key())
	}
	v, ok := sel.table[s.Key()]
	if !ok {
		return Variant{}, dErrors.New(dErrors.CodeNotFound, "no menu variant for "+s.Key())
	}
	return v, nil
}

// DefaultTable derives one variant per reachable state, named after its key.
func DefaultTable() Table {
	states := Reachable()
	t := make(Table, len(states))
	for _, s := range states {
		t[s.Key()] = Variant{ID: "menu_" + s.Key(), Label: label(s)}
	}
	return t
}

func label(s State) string {
	return fmt.Sprintf("%s | Lab %s | Exp %s", s.Location, s.Lab.Symbol(), s.ExpRoom.Symbol())
}

type tableFile struct {
	Variants map[string]Variant `yaml:"variants"`
}

// Load reads a YAML table:
//
//	variants:
//	  lab_1_0_1_held_returned_on: {id: richmenu-abc, label: ...}
//
// Keys use the State.Key format; note that its onCampus flag counts members
// inside a room. Entries missing from the file fall back to DefaultTable when
// fill is true.
func Load(r io.Reader, fill bool) (Table, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode menu table")
	}
	t := Table{}
	if fill {
		t = DefaultTable()
	}
	for k, v := range f.Variants {
		t[k] = v
	}
	return t, nil
}

// LoadFile is Load on a file path.
func LoadFile(path string, fill bool) (Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu table: %w", err)
	}
	defer fh.Close()
	return Load(fh, fill)
}
