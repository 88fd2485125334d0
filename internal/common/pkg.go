package common

import (
	"path"
	"strings"
)

// PkgAlias returns the name a package path is usually imported under: its
// last element, skipping a major version suffix such as "/v2".
//
//	"mapper-planner/sample/domain" -> "domain"
//	"github.com/acme/shop/v3"      -> "shop"
//	""                             -> ""
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if parent := path.Dir(pkgPath); parent != "." && parent != "/" {
			return path.Base(parent)
		}
	}

	return base
}

func isMajorVersion(s string) bool {
	digits, ok := strings.CutPrefix(s, "v")
	if !ok || digits == "" || digits == "0" || digits == "1" {
		return false
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
