package rdf

// splitXMLName splits iri into a namespace and the longest suffix usable as
// an XML local name. It fails when no such suffix exists or when nothing is
// left for the namespace.
func splitXMLName(iri string) (string, string, bool) {
	start := len(iri)
	for start > 0 && isNameChar(iri[start-1]) {
		start--
	}
	for start < len(iri) && !isNameStartChar(iri[start]) {
		start++
	}
	if start == 0 || start == len(iri) {
		return "", "", false
	}
	return iri[:start], iri[start:], true
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
