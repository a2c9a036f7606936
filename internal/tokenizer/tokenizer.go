package tokenizer

import (
	"regexp"
	"strings"
)

// Kind classifies a token. The set is closed so consumers can switch over
// it exhaustively.
type Kind int

const (
	Text Kind = iota
	Date
	Time
	Channel
	Number
)

func (k Kind) String() string {
	switch k {
	case Date:
		return "date"
	case Time:
		return "time"
	case Channel:
		return "channel"
	case Number:
		return "number"
	default:
		return "text"
	}
}

// Token is one classified fragment of a command body. Content always holds
// the raw whitespace-delimited substring; consumers strip mention markers
// themselves.
type Token struct {
	Kind    Kind
	Content string
}

var (
	channelPattern = regexp.MustCompile(`<#\d+>`)
	datePattern    = regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}`)
	timePattern    = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	numberPattern  = regexp.MustCompile(`^\d+$`)
)

// Tokenize splits a command body into classified tokens. The prefix is
// stripped best-effort; if it is absent the body is tokenized as-is. The
// first token is always the command name and is classified Text regardless
// of its shape. Tokenize never fails: anything unclassifiable is Text.
func Tokenize(raw, prefix string) []Token {
	body := strings.TrimPrefix(raw, prefix)

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return []Token{{Kind: Text, Content: strings.TrimSpace(body)}}
	}

	tokens := make([]Token, 0, len(fields))
	tokens = append(tokens, Token{Kind: Text, Content: fields[0]})
	for _, f := range fields[1:] {
		tokens = append(tokens, Token{Kind: classify(f), Content: f})
	}
	return tokens
}

// classify matches a single substring against the known patterns, first
// match wins. A substring containing both a channel mention and a date
// shape classifies as Channel.
func classify(s string) Kind {
	switch {
	case channelPattern.MatchString(s):
		return Channel
	case datePattern.MatchString(s):
		return Date
	case timePattern.MatchString(s):
		return Time
	case numberPattern.MatchString(s):
		return Number
	default:
		return Text
	}
}
