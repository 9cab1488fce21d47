package tool

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// ParamKind tags how a raw argument is interpreted before a tool sees it.
type ParamKind int

const (
	KindString ParamKind = iota
	KindEnum
	KindDate
)

func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type ParameterSpec struct {
	Name        string
	Description string
	Kind        ParamKind
	Required    bool
	// AllowedValues, when set, is the closed set of accepted (lower-case) values.
	AllowedValues []string
	// Default is applied when an optional argument is absent.
	Default string
}

func (p ParameterSpec) allows(value string) bool {
	if len(p.AllowedValues) == 0 {
		return true
	}
	for _, v := range p.AllowedValues {
		if v == value {
			return true
		}
	}
	return false
}

type ToolSpec struct {
	Name        string
	Description string
	Parameters  []ParameterSpec
}

// ToolInfo renders the spec in the shape eino chat models bind.
func (s ToolSpec) ToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(s.parameterInfos()),
	}
}

func (s ToolSpec) parameterInfos() map[string]*schema.ParameterInfo {
	params := make(map[string]*schema.ParameterInfo, len(s.Parameters))
	for _, p := range s.Parameters {
		desc := p.Description
		if p.Kind == KindDate {
			desc = strings.TrimSpace(desc + " (YYYY-MM-DD, a weekday name, 'today' or 'tomorrow')")
		}
		params[p.Name] = &schema.ParameterInfo{
			Type:     schema.String,
			Desc:     desc,
			Enum:     append([]string(nil), p.AllowedValues...),
			Required: p.Required,
		}
	}
	return params
}

// Catalog is the ordered list of tools offered to the model.
type Catalog []ToolSpec

func (c Catalog) Lookup(name string) (ToolSpec, bool) {
	for _, s := range c {
		if s.Name == name {
			return s, true
		}
	}
	return ToolSpec{}, false
}

func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name)
	}
	return names
}

func (c Catalog) ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(c))
	for _, s := range c {
		infos = append(infos, s.ToolInfo())
	}
	return infos
}

// Validate checks tool and parameter names are unique and enums are well formed.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, s := range c {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("tool name is required")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate tool %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		params := make(map[string]struct{}, len(s.Parameters))
		for _, p := range s.Parameters {
			if _, dup := params[p.Name]; dup {
				return fmt.Errorf("tool %q: duplicate parameter %q", s.Name, p.Name)
			}
			params[p.Name] = struct{}{}
			if p.Kind == KindEnum && len(p.AllowedValues) == 0 {
				return fmt.Errorf("tool %q: enum parameter %q has no allowed values", s.Name, p.Name)
			}
			if p.Default != "" && !p.allows(p.Default) {
				return fmt.Errorf("tool %q: default %q of %q is not allowed", s.Name, p.Default, p.Name)
			}
		}
	}
	return nil
}
