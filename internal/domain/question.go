package domain

import "time"

// Question is a Q&A entry attached to an item. It has no effect on the state
// machine; it exists as a read/write side channel between donor and browsers.
type Question struct {
	ID         string
	ItemID     string
	UserID     string
	Text       string
	Answer     *string
	AskedAt    time.Time
	AnsweredAt *time.Time
}

// QuestionDetail is a question joined with the asking user's name.
type QuestionDetail struct {
	Question
	UserName string
}
