package editor

import (
	"github.com/brianquiz/brianquiz/internal/quiz"
)

type rowKind int

const (
	rowTitle rowKind = iota
	rowTimeLimit
	rowText
	rowOption
	rowAnswer
	rowExplanation
)

// row is one editable line of the form.
type row struct {
	kind   rowKind
	qid    string
	qi     int
	option int
}

func (r row) textual() bool {
	switch r.kind {
	case rowTitle, rowText, rowOption, rowExplanation:
		return true
	}
	return false
}

func buildRows(q *quiz.Session) []row {
	rows := []row{{kind: rowTitle}, {kind: rowTimeLimit}}
	for i, qu := range q.Questions {
		rows = append(rows, row{kind: rowText, qid: qu.ID, qi: i})
		if qu.Type == quiz.MultipleChoice {
			for o := range qu.Options {
				rows = append(rows, row{kind: rowOption, qid: qu.ID, qi: i, option: o})
			}
		}
		rows = append(rows,
			row{kind: rowAnswer, qid: qu.ID, qi: i},
			row{kind: rowExplanation, qid: qu.ID, qi: i},
		)
	}
	return rows
}

// rowOf returns the index of the first row of question qid, or -1.
func rowOf(rows []row, qid string) int {
	for i, r := range rows {
		if r.qid == qid && r.kind == rowText {
			return i
		}
	}
	return -1
}

// cycle returns the element after cur in list, wrapping; delta -1 goes back.
func cycle[T comparable](list []T, cur T, delta int) T {
	i := 0
	for j, v := range list {
		if v == cur {
			i = j
			break
		}
	}
	n := len(list)
	return list[((i+delta)%n+n)%n]
}
