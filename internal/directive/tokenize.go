package directive

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// Token is one word of a code block's meta string. A token without "=" is
// positional.
type Token struct {
	Key        string
	Value      string
	Positional bool
}

var (
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}\s*$`)
)

// Tokenize splits a meta string into tokens. Words are separated by
// whitespace; single and double quotes group words, so title="My Thing" is a
// single token. The meta may also be wrapped in braces or be a JSON object.
//
// Tokenize never fails: unbalanced quotes fall back to plain whitespace
// splitting.
func Tokenize(meta string) []Token {
	if len(strings.TrimSpace(meta)) == 0 {
		return nil
	}

	if reJSON.MatchString(meta) {
		if tokens, ok := tokenizeJSON(meta); ok {
			return tokens
		}
	}

	if subs := reBrackets.FindStringSubmatch(meta); subs != nil {
		meta = subs[1]
	}

	words, err := shlex.Split(meta)
	if err != nil {
		words = strings.Fields(meta)
	}

	tokens := make([]Token, 0, len(words))

	for _, word := range words {
		idx := strings.IndexRune(word, '=')
		if idx < 0 {
			tokens = append(tokens, Token{Value: word, Positional: true})

			continue
		}

		tokens = append(tokens, Token{Key: word[:idx], Value: word[idx+1:]})
	}

	return tokens
}

func tokenizeJSON(meta string) ([]Token, bool) {
	var dict map[string]interface{}

	if err := json.Unmarshal([]byte(meta), &dict); err != nil {
		return nil, false
	}

	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	tokens := make([]Token, 0, len(keys))

	for _, key := range keys {
		value := dict[key]

		s, ok := value.(string)
		if !ok {
			s = fmt.Sprint(value)
		}

		tokens = append(tokens, Token{Key: key, Value: s})
	}

	return tokens, true
}
