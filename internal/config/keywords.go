package config

import "strings"

// Keywords are the reserved words recognized across the conversation.
// Matching is exact on the trimmed, lower-cased body.
type Keywords struct {
	Home     []string `mapstructure:"home"`
	Back     []string `mapstructure:"back"`
	Checkout []string `mapstructure:"checkout"`
}

var (
	defaultHome     = []string{"menu", "home", "start"}
	defaultBack     = []string{"cancel", "back", "exit", "catalog", "products"}
	defaultCheckout = []string{"checkout", "order", "place order", "finish", "finalize"}
)

// DefaultKeywords returns the built-in vocabulary.
func DefaultKeywords() Keywords {
	var k Keywords
	k.applyDefaults()
	return k
}

func (k *Keywords) applyDefaults() {
	if len(k.Home) == 0 {
		k.Home = append([]string(nil), defaultHome...)
	}
	if len(k.Back) == 0 {
		k.Back = append([]string(nil), defaultBack...)
	}
	if len(k.Checkout) == 0 {
		k.Checkout = append([]string(nil), defaultCheckout...)
	}
}

// IsHome reports a reset-to-main-menu word.
func (k Keywords) IsHome(normalized string) bool { return contains(k.Home, normalized) }

// IsBack reports a one-level-up word.
func (k Keywords) IsBack(normalized string) bool { return contains(k.Back, normalized) }

// IsCancel reports any word that aborts a checkout: home or back.
func (k Keywords) IsCancel(normalized string) bool {
	return k.IsHome(normalized) || k.IsBack(normalized)
}

// IsCheckoutTrigger reports an explicit request to start checkout.
func (k Keywords) IsCheckoutTrigger(normalized string) bool {
	return contains(k.Checkout, normalized)
}

func contains(words []string, s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, w := range words {
		if strings.ToLower(strings.TrimSpace(w)) == s {
			return true
		}
	}
	return false
}
