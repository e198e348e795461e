package keybind

import (
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/internal/key"
)

// ParseCombination resolves '+' delimited tokens and validates the shape.
// Valid: one or more modifiers followed by exactly one action key, first token
// naming a modifier; or a single media key alone.
// Errors satisfy errors.IsNotValid.
func ParseCombination(spec string) (key.Combination, error) {
	tokens := strings.Split(spec, "+")
	seq := make([]key.Key, 0, len(tokens)+1)
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		for _, k := range key.FromToken(tok) {
			if k == key.Unknown {
				return key.Combination{}, errors.NotValidf("unknown key '%s'", tok)
			}
			seq = append(seq, k)
		}
	}

	var c key.Combination
	for _, k := range seq {
		if !c.Add(k) {
			return key.Combination{}, errors.NotValidf("duplicate key %s", k)
		}
	}

	if len(seq) == 1 && seq[0].IsMedia() {
		return c, nil
	}
	for _, k := range seq {
		if k.IsMedia() {
			return key.Combination{}, errors.NotValidf("media key %s must be used alone", k)
		}
	}
	if first := key.FromToken(strings.TrimSpace(tokens[0])); len(first) != 1 || !first[0].IsModifier() {
		return key.Combination{}, errors.NotValidf("first key '%s' is not a modifier", strings.TrimSpace(tokens[0]))
	}
	action := key.Unknown
	for _, k := range seq {
		switch {
		case k.IsModifier() && action != key.Unknown:
			return key.Combination{}, errors.NotValidf("modifier %s after action key %s", k, action)
		case k.IsModifier():
		case action != key.Unknown:
			return key.Combination{}, errors.NotValidf("more than one action key: %s, %s", action, k)
		default:
			action = k
		}
	}
	if action == key.Unknown {
		return key.Combination{}, errors.NotValidf("no action key")
	}
	return c, nil
}
