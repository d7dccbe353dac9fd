// Package tactics maps a team's field-size and tactical-focus choices to the
// multipliers applied to its performance categories. The tables are static
// game balance data embedded at build time.
package tactics

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// Performance categories a modifier can apply to.
const (
	StatOffense = "offense"
	StatDefense = "defense"
	StatPassing = "passing"
	StatRunning = "running"
)

//go:embed tactics.yaml
var tablesYAML []byte

type focusRow struct {
	Offense float64 `yaml:"offense"`
	Defense float64 `yaml:"defense"`
	Passing float64 `yaml:"passing"`
	Running float64 `yaml:"running"`
}

type fieldRow struct {
	Passing float64 `yaml:"passing"`
}

type tables struct {
	FieldSizes    map[string]fieldRow `yaml:"field_sizes"`
	TacticalFocus map[string]focusRow `yaml:"tactical_focus"`
}

var loaded tables

func init() {
	if err := yaml.Unmarshal(tablesYAML, &loaded); err != nil {
		panic(fmt.Sprintf("tactics: embedded tables malformed: %v", err))
	}
	for _, fs := range []string{domain.FieldSizeStandard, domain.FieldSizeLarge, domain.FieldSizeSmall} {
		if _, ok := loaded.FieldSizes[fs]; !ok {
			panic(fmt.Sprintf("tactics: embedded tables missing field size %q", fs))
		}
	}
	for _, tf := range []string{domain.FocusBalanced, domain.FocusOffensive, domain.FocusDefensive, domain.FocusPassing, domain.FocusRunning} {
		if _, ok := loaded.TacticalFocus[tf]; !ok {
			panic(fmt.Sprintf("tactics: embedded tables missing tactical focus %q", tf))
		}
	}
}

// Modifier returns the combined multiplier for one performance category.
// The field-size table contributes only to passing; every other category is
// the tactical-focus multiplier alone. Callers must pass validated enum
// values (the repository rejects unknown ones at the load boundary); unknown
// inputs fall through to a neutral 1.0.
func Modifier(fieldSize, focus, stat string) float64 {
	m := 1.0
	if stat == StatPassing {
		if row, ok := loaded.FieldSizes[fieldSize]; ok {
			m *= row.Passing
		}
	}
	row, ok := loaded.TacticalFocus[focus]
	if !ok {
		return m
	}
	switch stat {
	case StatOffense:
		m *= row.Offense
	case StatDefense:
		m *= row.Defense
	case StatPassing:
		m *= row.Passing
	case StatRunning:
		m *= row.Running
	}
	return m
}

// Modifiers returns the full multiplier bundle for a team configuration.
func Modifiers(fieldSize, focus string) domain.TacticalModifiers {
	return domain.TacticalModifiers{
		Offense: Modifier(fieldSize, focus, StatOffense),
		Defense: Modifier(fieldSize, focus, StatDefense),
		Passing: Modifier(fieldSize, focus, StatPassing),
		Running: Modifier(fieldSize, focus, StatRunning),
	}
}

// Mean is the average of the four category multipliers, used to scale team
// strength before event generation.
func Mean(m domain.TacticalModifiers) float64 {
	return (m.Offense + m.Defense + m.Passing + m.Running) / 4.0
}
