// Package quizfile reads and writes quizzes as YAML documents for the
// export and import-file commands.
package quizfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brianquiz/brianquiz/internal/quiz"
)

// Marshal renders q as YAML.
func Marshal(q *quiz.Session) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(q); err != nil {
		return nil, fmt.Errorf("encode quiz: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode quiz: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a YAML quiz. Unknown keys are rejected, missing IDs are
// filled in and the result must be takeable.
func Unmarshal(data []byte) (*quiz.Session, error) {
	var q quiz.Session
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}
	if err := quiz.CheckSession(&q); err != nil {
		return nil, fmt.Errorf("malformed quiz: %w", err)
	}
	if err := quiz.Validate(&q); err != nil {
		return nil, fmt.Errorf("incomplete quiz: %w", err)
	}
	return &q, nil
}

// WriteFile exports q to path.
func WriteFile(path string, q *quiz.Session) error {
	data, err := Marshal(q)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile imports the quiz at path.
func ReadFile(path string) (*quiz.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
