package pc

import "strings"

// ParseCmdLine splits a boot command line into key/value pairs. Pairs are
// separated by whitespace; a bare key maps to itself.
func ParseCmdLine(cmdLine string) map[string]string {
	kv := make(map[string]string)
	for _, pair := range strings.Fields(cmdLine) {
		parts := strings.Split(pair, "=")
		switch len(parts) {
		case 2: // foo=bar
			kv[parts[0]] = parts[1]
		case 1: // nofoo
			kv[parts[0]] = parts[0]
		}
	}
	return kv
}
