package questiongen

import (
	"fmt"
	"strings"
)

const topicSystemPrompt = `You write quiz questions for a self-study quiz app.

Rules:
- Write exactly the requested number of questions about the given topic.
- Mix MULTIPLE_CHOICE and TRUE_FALSE questions unless the topic suits only one.
- MULTIPLE_CHOICE questions have exactly 4 options and one correct answer, given as the letter A, B, C or D.
- TRUE_FALSE questions have no options; the answer is True or False.
- Distractors should be plausible, not jokes.
- Keep question text self-contained and under 300 characters.
- Give a short explanation for every answer.`

const extractSystemPrompt = `You turn study material into a quiz for a self-study quiz app.

Rules:
- If the material already contains questions, reproduce them faithfully, keeping their answers.
- Otherwise write questions that test the key facts in the material.
- MULTIPLE_CHOICE questions have exactly 4 options and one correct answer, given as the letter A, B, C or D.
- TRUE_FALSE questions have no options; the answer is True or False.
- Give the quiz a short title that names its subject.
- Give a short explanation for every answer.`

func systemPrompt(m Mode) string {
	if m == ModeExtract {
		return extractSystemPrompt
	}
	return topicSystemPrompt
}

// buildUserMessage constructs the user message for in. count has already
// been clamped.
func buildUserMessage(in Input, count int) string {
	var b strings.Builder

	switch in.Mode {
	case ModeExtract:
		if in.SourceText != "" {
			b.WriteString("Material:\n")
			b.WriteString(strings.TrimSpace(in.SourceText))
			b.WriteString("\n")
		}
		if in.Image != nil {
			b.WriteString("The attached image contains the material.\n")
		}
		if in.Count > 0 {
			fmt.Fprintf(&b, "\nAim for about %d questions.", count)
		}
	default:
		fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(in.Topic))
		fmt.Fprintf(&b, "Number of questions: %d", count)
	}

	return strings.TrimRight(b.String(), "\n")
}
