package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sharecircle/internal/domain"
	"sharecircle/internal/usecase"
)

// maxUploadBytes caps the request body of a listing upload.
const maxUploadBytes = 32 << 20

type itemDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Weight      string    `json:"weight,omitempty"`
	Dimensions  string    `json:"dimensions,omitempty"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	DonorID     string    `json:"donorId"`
	Status      string    `json:"status"`
	PickupOnly  bool      `json:"pickupOnly"`
	PostedAt    time.Time `json:"postedAt"`
}

type donorDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	JoinedAt      time.Time `json:"joinedAt"`
	DonationsMade int       `json:"donationsMade"`
	Rating        float64   `json:"rating"`
}

type itemListEntry struct {
	itemDTO
	Donor donorDTO `json:"donor"`
}

type itemDetailResponse struct {
	Item      itemDTO       `json:"item"`
	Donor     donorDTO      `json:"donor"`
	Questions []questionDTO `json:"questions"`
}

func toItemDTO(item domain.Item) itemDTO {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	return itemDTO{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Condition:   item.Condition,
		Weight:      item.Weight,
		Dimensions:  item.Dimensions,
		Location:    item.Location,
		Images:      images,
		DonorID:     item.DonorID,
		Status:      string(item.Status),
		PickupOnly:  item.PickupOnly,
		PostedAt:    item.PostedAt,
	}
}

func toDonorDTO(d domain.DonorSummary) donorDTO {
	return donorDTO{
		ID:            d.ID,
		Name:          d.Name,
		JoinedAt:      d.JoinedAt,
		DonationsMade: d.DonationsMade,
		Rating:        d.Rating,
	}
}

// ItemsCreate lists a new item. The body is multipart form data with the
// listing fields plus up to five files under "images".
func (a *App) ItemsCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.fail(w, domain.ValidationError("invalid multipart form"))
		return
	}

	input := usecase.CreateItemInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Condition:   r.FormValue("condition"),
		Weight:      r.FormValue("weight"),
		Dimensions:  r.FormValue("dimensions"),
		Location:    r.FormValue("location"),
		PickupOnly:  r.FormValue("pickupOnly") == "true",
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				a.fail(w, domain.ValidationError("unreadable image upload"))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				a.fail(w, domain.ValidationError("unreadable image upload"))
				return
			}
			input.Images = append(input.Images, usecase.MediaFile{Filename: header.Filename, Data: data})
		}
	}

	item, err := a.Catalog.CreateItem(r.Context(), a.currentUserID(r), input)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, toItemDTO(*item))
}

// ItemsList is the public catalog view. maxDistance is accepted for
// compatibility and ignored.
func (a *App) ItemsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ItemFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}

	items, err := a.Catalog.ListItems(r.Context(), filter)
	if err != nil {
		a.fail(w, err)
		return
	}

	entries := make([]itemListEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, itemListEntry{
			itemDTO: toItemDTO(it.Item),
			Donor:   toDonorDTO(it.Donor),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": entries})
}

// ItemsGet is the public item page: the listing, the donor profile and the
// question thread.
func (a *App) ItemsGet(w http.ResponseWriter, r *http.Request) {
	detail, err := a.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	questions := make([]questionDTO, 0, len(detail.Questions))
	for _, q := range detail.Questions {
		questions = append(questions, toQuestionDetailDTO(q))
	}
	a.json(w, http.StatusOK, itemDetailResponse{
		Item:      toItemDTO(detail.Item),
		Donor:     toDonorDTO(detail.Donor),
		Questions: questions,
	})
}
