package rules

import "regexp"

var minAnsibleVersionRegex = regexp.MustCompile(`(?m)(min_ansible_version:\s+)(\d+(?:\.\d+)*)(\s*)$`)

// QuoteMinAnsibleVersion wraps an unquoted numeric min_ansible_version in
// double quotes so the meta schema reads it as a string.
func QuoteMinAnsibleVersion(content string) (string, int) {
	fixes := len(minAnsibleVersionRegex.FindAllStringIndex(content, -1))
	if fixes == 0 {
		return content, 0
	}
	return minAnsibleVersionRegex.ReplaceAllString(content, `${1}"${2}"${3}`), fixes
}
