package questiongen

import "github.com/brianquiz/brianquiz/internal/llm"

var questionItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type":        "string",
			"enum":        []any{"MULTIPLE_CHOICE", "TRUE_FALSE"},
			"description": "How the question is answered",
		},
		"question_text": map[string]any{
			"type":        "string",
			"description": "The question shown to the quiz taker",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Exactly 4 options for MULTIPLE_CHOICE. Empty array for TRUE_FALSE.",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "A, B, C or D for MULTIPLE_CHOICE. True or False for TRUE_FALSE.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "One or two sentences on why the answer is correct",
		},
	},
	"required":             []any{"type", "question_text", "options", "correct_answer", "explanation"},
	"additionalProperties": false,
}

// TopicSchema is the response shape for topic mode.
var TopicSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A list of quiz questions about a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItem,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// ExtractSchema is the response shape for extract mode.
var ExtractSchema = &llm.Schema{
	Name:        "quiz-extract",
	Description: "A titled quiz extracted from source material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short title for the quiz",
			},
			"questions": map[string]any{
				"type":  "array",
				"items": questionItem,
			},
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}
