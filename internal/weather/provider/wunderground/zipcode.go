// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package wunderground

import "strings"

// ValidZipCode reports whether zip is a US zip code of the form 12345 or 12345-6789.
func ValidZipCode(zip string) bool {
	parts := strings.Split(zip, "-")
	if len(parts[0]) != 5 || !digitsOnly(parts[0]) {
		return false
	}

	switch len(parts) {
	case 1:
		return true
	case 2:
		return len(parts[1]) == 4 && digitsOnly(parts[1])
	default:
		return false
	}
}

func digitsOnly(val string) bool {
	for i := 0; i < len(val); i++ {
		if val[i] < '0' || val[i] > '9' {
			return false
		}
	}
	return true
}
