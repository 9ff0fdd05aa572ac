package encoder

import (
	"bufio"
	"fmt"
	"strings"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Template selects how chat messages are framed into a single text.
type Template string

const (
	// TemplatePlain renders "[role]: content" blocks separated by a blank line.
	TemplatePlain Template = "plain"
	// TemplateChatML renders <|im_start|>role\ncontent<|im_end|> blocks and
	// primes the assistant turn.
	TemplateChatML Template = "chatml"
)

// Templates lists the supported chat templates.
var Templates = []Template{TemplatePlain, TemplateChatML}

// ParseTemplate validates a template name. Empty means plain.
func ParseTemplate(name string) (Template, error) {
	switch Template(strings.ToLower(strings.TrimSpace(name))) {
	case "", TemplatePlain:
		return TemplatePlain, nil
	case TemplateChatML:
		return TemplateChatML, nil
	default:
		return "", fmt.Errorf("unknown chat template %q", name)
	}
}

// FormatChat frames messages into one text. No messages gives "".
func FormatChat(tmpl Template, messages []Message) string {
	if len(messages) == 0 {
		return ""
	}

	var sb strings.Builder
	switch tmpl {
	case TemplateChatML:
		for _, m := range messages {
			sb.WriteString("<|im_start|>")
			sb.WriteString(m.Role)
			sb.WriteString("\n")
			sb.WriteString(m.Content)
			sb.WriteString("<|im_end|>\n")
		}
		sb.WriteString("<|im_start|>assistant\n")
	default:
		for i, m := range messages {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString("[")
			sb.WriteString(m.Role)
			sb.WriteString("]: ")
			sb.WriteString(m.Content)
		}
	}
	return sb.String()
}

// Roles recognized at the start of a transcript line.
var Roles = []string{"system", "user", "assistant", "tool"}

// ParseTranscript splits editor text into messages. A line of the form
// "role: text" with a known role starts a new message; other lines continue
// the current one. Text before the first role line becomes a user message.
// Messages with empty content are kept so a bare "system:" still counts.
func ParseTranscript(text string) []Message {
	var (
		msgs    []Message
		current *Message
		body    []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		msgs = append(msgs, *current)
		current = nil
		body = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for scanner.Scan() {
		line := scanner.Text()
		if role, rest, ok := splitRoleLine(line); ok {
			flush()
			current = &Message{Role: role}
			body = []string{rest}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			current = &Message{Role: "user"}
		}
		body = append(body, line)
	}
	flush()
	return msgs
}

func splitRoleLine(line string) (role, rest string, ok bool) {
	head, tail, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	head = strings.ToLower(strings.TrimSpace(head))
	for _, r := range Roles {
		if head == r {
			return r, strings.TrimSpace(tail), true
		}
	}
	return "", "", false
}
