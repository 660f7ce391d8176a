package fonts

import (
	"os"
	"path/filepath"
	"runtime"
)

// Role is a logical use of a typeface on the form
type Role string

const (
	RoleBody    Role = "body"
	RoleHeading Role = "heading"
)

// Roles lists every role the form needs, in resolution order
var Roles = []Role{RoleBody, RoleHeading}

// Chains maps each role to its ordered candidate font paths
type Chains map[Role][]string

// Clone returns a deep copy so callers cannot alter a resolver's chains
func (c Chains) Clone() Chains {
	out := make(Chains, len(c))
	for role, paths := range c {
		out[role] = append([]string(nil), paths...)
	}
	return out
}

// DefaultChains returns the platform's candidate lists. Gothic faces come
// first for body text, Mincho faces first for the heading. Collections
// (.ttc) are not listed because a single face cannot be embedded from them.
func DefaultChains() Chains {
	switch runtime.GOOS {
	case "windows":
		dir := windowsFontsDir()
		return Chains{
			RoleBody:    joinAll(dir, "yugothm.ttf", "YuGothM.ttf", "yugothr.ttf", "ipaexg.ttf", "yumin.ttf"),
			RoleHeading: joinAll(dir, "yumin.ttf", "ipaexm.ttf", "yugothm.ttf", "YuGothM.ttf"),
		}
	case "darwin":
		return Chains{
			RoleBody: []string{
				"/Library/Fonts/ipaexg.ttf",
				"/Library/Fonts/ipag.ttf",
			},
			RoleHeading: []string{
				"/Library/Fonts/ipaexm.ttf",
				"/Library/Fonts/ipaexg.ttf",
			},
		}
	default:
		return Chains{
			RoleBody: []string{
				"/usr/share/fonts/opentype/ipaexfont-gothic/ipaexg.ttf",
				"/usr/share/fonts/truetype/fonts-japanese-gothic.ttf",
				"/usr/share/fonts/opentype/ipafont-gothic/ipag.ttf",
				"/usr/share/fonts/ipa-gothic/ipag.ttf",
			},
			RoleHeading: []string{
				"/usr/share/fonts/opentype/ipaexfont-mincho/ipaexm.ttf",
				"/usr/share/fonts/truetype/fonts-japanese-mincho.ttf",
				"/usr/share/fonts/opentype/ipafont-mincho/ipam.ttf",
				"/usr/share/fonts/opentype/ipaexfont-gothic/ipaexg.ttf",
			},
		}
	}
}

func windowsFontsDir() string {
	if windir := os.Getenv("WINDIR"); windir != "" {
		return filepath.Join(windir, "Fonts")
	}
	return `C:\Windows\Fonts`
}

func joinAll(dir string, names ...string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}
