package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sharecircle/internal/domain"
)

// MaxItemImages caps the number of images accepted per listing.
const MaxItemImages = 5

// MediaFile is an uploaded image before it reaches the media store.
type MediaFile struct {
	Filename string
	Data     []byte
}

// CreateItemInput carries the listing attributes from the boundary.
type CreateItemInput struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Weight      string
	Dimensions  string
	Location    string
	PickupOnly  bool
	Images      []MediaFile
}

// ItemDetail is everything the item page shows: the listing, the donor's
// public profile and the Q&A thread.
type ItemDetail struct {
	Item      domain.Item
	Donor     domain.DonorSummary
	Questions []domain.QuestionDetail
}

// CatalogUsecase manages listings and their Q&A side channel.
type CatalogUsecase struct {
	items     domain.ItemRepository
	questions domain.QuestionRepository
	users     domain.UserRepository
	media     domain.MediaStore
	cache     ItemCache
	logger    zerolog.Logger
}

// NewCatalogUsecase creates the catalog service. cache may be nil.
func NewCatalogUsecase(
	items domain.ItemRepository,
	questions domain.QuestionRepository,
	users domain.UserRepository,
	media domain.MediaStore,
	cache ItemCache,
	logger zerolog.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		items:     items,
		questions: questions,
		users:     users,
		media:     media,
		cache:     cache,
		logger:    logger,
	}
}

// CreateItem stores the images, then inserts the listing with status forced
// to available. The donor's donation counter moves with the insert.
func (uc *CatalogUsecase) CreateItem(ctx context.Context, donorID string, in CreateItemInput) (*domain.Item, error) {
	if donorID == "" {
		return nil, domain.UnauthorizedError("missing user context")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Condition) == "" ||
		strings.TrimSpace(in.Location) == "" {
		return nil, domain.ValidationError("title, description, category, condition and location are required")
	}
	if len(in.Images) > MaxItemImages {
		return nil, domain.ValidationError("at most 5 images per item")
	}

	images := make([]string, 0, len(in.Images))
	for _, file := range in.Images {
		ref, err := uc.media.Save(ctx, file.Filename, file.Data)
		if err != nil {
			return nil, domain.ValidationError(err.Error())
		}
		images = append(images, ref)
	}

	item := &domain.Item{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Condition:   strings.TrimSpace(in.Condition),
		Weight:      strings.TrimSpace(in.Weight),
		Dimensions:  strings.TrimSpace(in.Dimensions),
		Location:    strings.TrimSpace(in.Location),
		Images:      images,
		DonorID:     donorID,
		Status:      domain.ItemStatusAvailable,
		PickupOnly:  in.PickupOnly,
		PostedAt:    time.Now().UTC(),
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("item_id", item.ID).Str("donor_id", donorID).Msg("item listed")
	return item, nil
}

// ListItems returns the public catalog view. maxDistance is accepted at the
// boundary but not applied here.
func (uc *CatalogUsecase) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.ItemWithDonor, error) {
	if filter.Sort != domain.ItemSortOldest {
		filter.Sort = domain.ItemSortNewest
	}
	return uc.items.ListAvailable(ctx, filter)
}

// GetItem returns the item page detail. The bare item row goes through the
// cache; donor and questions are read fresh.
func (uc *CatalogUsecase) GetItem(ctx context.Context, id string) (*ItemDetail, error) {
	item, err := uc.cachedItem(ctx, id)
	if err != nil {
		return nil, err
	}

	donor, err := uc.users.GetByID(ctx, item.DonorID)
	if err != nil {
		return nil, err
	}
	questions, err := uc.questions.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ItemDetail{
		Item: *item,
		Donor: domain.DonorSummary{
			ID:            donor.ID,
			Name:          donor.Name,
			JoinedAt:      donor.JoinedAt,
			DonationsMade: donor.DonationsMade,
			Rating:        donor.Rating,
		},
		Questions: questions,
	}, nil
}

// CreateQuestion attaches a question to an item. Questions never touch the
// state machine.
func (uc *CatalogUsecase) CreateQuestion(ctx context.Context, userID, itemID, text string) (*domain.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ValidationError("question text is required")
	}
	if _, err := uc.cachedItem(ctx, itemID); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:      uuid.NewString(),
		ItemID:  itemID,
		UserID:  userID,
		Text:    strings.TrimSpace(text),
		AskedAt: time.Now().UTC(),
	}
	if err := uc.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// AnswerQuestion records the donor's answer. Only the donor of the question's
// item may answer.
func (uc *CatalogUsecase) AnswerQuestion(ctx context.Context, actorID, questionID, answer string) (*domain.Question, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, domain.ValidationError("answer is required")
	}

	question, err := uc.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	item, err := uc.cachedItem(ctx, question.ItemID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actorID, domain.RelationDonor, domain.Parties{Donor: item.DonorID},
		"not authorized to answer this question"); err != nil {
		return nil, err
	}

	answer = strings.TrimSpace(answer)
	answeredAt := time.Now().UTC()
	if err := uc.questions.Answer(ctx, questionID, answer, answeredAt); err != nil {
		return nil, err
	}
	question.Answer = &answer
	question.AnsweredAt = &answeredAt
	return question, nil
}

// cachedItem is the read-through item lookup shared by the catalog paths.
func (uc *CatalogUsecase) cachedItem(ctx context.Context, id string) (*domain.Item, error) {
	if uc.cache != nil {
		if item, err := uc.cache.Get(ctx, id); err == nil && item != nil {
			return item, nil
		} else if err != nil {
			uc.logger.Warn().Err(err).Str("item_id", id).Msg("item cache read failed")
		}
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, item); err != nil {
			uc.logger.Warn().Err(err).Str("item_id", id).Msg("item cache write failed")
		}
	}
	return item, nil
}
