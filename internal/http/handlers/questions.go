package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sharecircle/internal/domain"
)

type createQuestionRequest struct {
	ItemID string `json:"itemId"`
	Text   string `json:"text"`
}

type answerQuestionRequest struct {
	Answer string `json:"answer"`
}

type questionDTO struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"itemId"`
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName,omitempty"`
	Text       string     `json:"text"`
	Answer     *string    `json:"answer"`
	AskedAt    time.Time  `json:"askedAt"`
	AnsweredAt *time.Time `json:"answeredAt"`
}

func toQuestionDTO(q *domain.Question) questionDTO {
	return questionDTO{
		ID:         q.ID,
		ItemID:     q.ItemID,
		UserID:     q.UserID,
		Text:       q.Text,
		Answer:     q.Answer,
		AskedAt:    q.AskedAt,
		AnsweredAt: q.AnsweredAt,
	}
}

func toQuestionDetailDTO(q domain.QuestionDetail) questionDTO {
	dto := toQuestionDTO(&q.Question)
	dto.UserName = q.UserName
	return dto
}

// QuestionsCreate asks a question on a listing.
func (a *App) QuestionsCreate(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	question, err := a.Catalog.CreateQuestion(r.Context(), a.currentUserID(r), req.ItemID, req.Text)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, toQuestionDTO(question))
}

// QuestionsAnswer records the donor's answer to a question.
func (a *App) QuestionsAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerQuestionRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	question, err := a.Catalog.AnswerQuestion(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toQuestionDTO(question))
}
