package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cardioml/cardioml/internal/config"
)

// The list flag types accept comma-separated values and may be repeated;
// the first explicit use replaces the built-in default rather than
// appending to it.

type stringList struct {
	target *[]string
	set    bool
}

func newStringList(target *[]string) *stringList { return &stringList{target: target} }

func (l *stringList) String() string {
	if l.target == nil {
		return ""
	}
	return strings.Join(*l.target, ",")
}

func (l *stringList) Set(value string) error {
	if !l.set {
		*l.target = nil
		l.set = true
	}
	for _, part := range splitList(value) {
		*l.target = append(*l.target, part)
	}
	return nil
}

type intList struct {
	target *[]int
	set    bool
}

func newIntList(target *[]int) *intList { return &intList{target: target} }

func (l *intList) String() string {
	if l.target == nil {
		return ""
	}
	parts := make([]string, len(*l.target))
	for i, v := range *l.target {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(value string) error {
	if !l.set {
		*l.target = nil
		l.set = true
	}
	for _, part := range splitList(value) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid integer '%s'", part)
		}
		*l.target = append(*l.target, v)
	}
	return nil
}

type floatList struct {
	target *[]float64
	set    bool
}

func newFloatList(target *[]float64) *floatList { return &floatList{target: target} }

func (l *floatList) String() string {
	if l.target == nil {
		return ""
	}
	parts := make([]string, len(*l.target))
	for i, v := range *l.target {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(value string) error {
	if !l.set {
		*l.target = nil
		l.set = true
	}
	for _, part := range splitList(value) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return fmt.Errorf("invalid number '%s'", part)
		}
		*l.target = append(*l.target, v)
	}
	return nil
}

// pairList parses repeatable "first,second" tensor map pairs.
type pairList struct {
	target *[]config.Pair
	set    bool
}

func newPairList(target *[]config.Pair) *pairList { return &pairList{target: target} }

func (l *pairList) String() string {
	if l.target == nil {
		return ""
	}
	parts := make([]string, len(*l.target))
	for i, p := range *l.target {
		parts[i] = p.In + "," + p.Out
	}
	return strings.Join(parts, " ")
}

func (l *pairList) Set(value string) error {
	if !l.set {
		*l.target = nil
		l.set = true
	}
	parts := splitList(value)
	if len(parts) != 2 {
		return fmt.Errorf("expected two tensor map names separated by a comma, got '%s'", value)
	}
	*l.target = append(*l.target, config.Pair{In: parts[0], Out: parts[1]})
	return nil
}

// groupList parses repeatable flags where each occurrence contributes one
// group of comma-separated values, e.g. time-window boundary definitions.
type groupList struct {
	target *[][]string
	set    bool
}

func newGroupList(target *[][]string) *groupList { return &groupList{target: target} }

func (l *groupList) String() string {
	if l.target == nil {
		return ""
	}
	parts := make([]string, len(*l.target))
	for i, group := range *l.target {
		parts[i] = strings.Join(group, ",")
	}
	return strings.Join(parts, " ")
}

func (l *groupList) Set(value string) error {
	if !l.set {
		*l.target = nil
		l.set = true
	}
	*l.target = append(*l.target, splitList(value))
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
