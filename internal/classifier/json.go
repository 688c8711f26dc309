package classifier

// extractJSONObject locates the first balanced brace-delimited object in
// free text. Models routinely wrap the JSON in explanatory prose, so a
// greedy first-{-to-last-} match would over-capture and a non-greedy one
// would truncate nested objects; the only safe approach is counting braces
// while honoring string literals and escapes.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
