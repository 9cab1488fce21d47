package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
)

const businessInfoPlaceholder = "{{business_info}}"

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/business.txt
	businessRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System       string
	BusinessInfo string
}

// LoadPromptSet returns the embedded prompts with the business info rendered into the system prompt.
func LoadPromptSet() PromptSet {
	business := strings.TrimSpace(businessRaw)
	return PromptSet{
		System:       strings.TrimSpace(strings.ReplaceAll(systemRaw, businessInfoPlaceholder, business)),
		BusinessInfo: business,
	}
}

func (p PromptSet) Validate() error {
	if strings.TrimSpace(p.System) == "" {
		return fmt.Errorf("%w: system prompt", contractx.ErrPromptMissing)
	}
	if strings.Contains(p.System, businessInfoPlaceholder) {
		return fmt.Errorf("%w: business info was not rendered", contractx.ErrPromptMissing)
	}
	return nil
}
