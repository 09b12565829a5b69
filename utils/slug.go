package utils

import "strings"

// Slugify lowercases a service name and joins the words with hyphens, so
// "AC Repair" becomes the category slug "ac-repair".
func Slugify(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), "-"))
}
