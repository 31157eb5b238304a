// Package params decodes and validates the parameters of one ensure-line invocation.
//
// Every surface (CLI flags, batch files, HTTP bodies, MCP tool calls) ends up as a
// Params value, so aliasing, defaults and validation live here once.
package params

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/ensureline/pkg/domain"
)

// Params is the raw parameter set. Optional strings are pointers so that an empty
// value stays distinguishable from an omitted one.
type Params struct {
	Destination  string           `mapstructure:"destination" json:"destination" yaml:"destination"`
	State        string           `mapstructure:"state" json:"state,omitempty" yaml:"state,omitempty"`
	Regexp       *string          `mapstructure:"regexp" json:"regexp,omitempty" yaml:"regexp,omitempty"`
	Line         *string          `mapstructure:"line" json:"line,omitempty" yaml:"line,omitempty"`
	Backrefs     bool             `mapstructure:"backrefs" json:"backrefs,omitempty" yaml:"backrefs,omitempty"`
	InsertAfter  *string          `mapstructure:"insertafter" json:"insertafter,omitempty" yaml:"insertafter,omitempty"`
	InsertBefore *string          `mapstructure:"insertbefore" json:"insertbefore,omitempty" yaml:"insertbefore,omitempty"`
	Backup       bool             `mapstructure:"backup" json:"backup,omitempty" yaml:"backup,omitempty"`
	BackupDest   string           `mapstructure:"backupdest" json:"backupdest,omitempty" yaml:"backupdest,omitempty"`
	FirstMatch   bool             `mapstructure:"firstmatch" json:"firstmatch,omitempty" yaml:"firstmatch,omitempty"`
	Encoding     *domain.Encoding `mapstructure:"encoding" json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Dialect      string           `mapstructure:"dialect" json:"dialect,omitempty" yaml:"dialect,omitempty"`
}

// Aliases maps accepted alternative keys to their canonical name.
var Aliases = map[string]string{
	"zosdest": "destination",
	"path":    "destination",
	"dest":    "destination",
	"regex":   "regexp",
	"value":   "line",
}

// Decode builds Params from a loosely typed map such as a parsed YAML task or a JSON
// body. Scalars are coerced ("yes" -> true, 8080 -> "8080"), aliases are folded and
// unknown keys are rejected.
func Decode(raw map[string]any) (Params, error) {
	folded, err := fold(raw)
	if err != nil {
		return Params{}, err
	}

	var p Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       yesNoHook,
	})
	if err != nil {
		return Params{}, err
	}
	if err := dec.Decode(folded); err != nil {
		return Params{}, &ValidationError{Field: "params", Message: err.Error()}
	}
	return p, nil
}

func fold(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	from := make(map[string]string, len(raw))

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		canonical := strings.ToLower(k)
		if a, ok := Aliases[canonical]; ok {
			canonical = a
		}
		if prev, dup := from[canonical]; dup {
			return nil, &ValidationError{
				Field:   canonical,
				Message: fmt.Sprintf("given both as %q and %q", prev, k),
			}
		}
		from[canonical] = k
		out[canonical] = raw[k]
	}
	return out, nil
}

// yesNoHook accepts the YAML 1.1 boolean words that playbook-style task files use.
func yesNoHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return data, nil
}
