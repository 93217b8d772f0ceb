package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecircle/internal/adapter/repo/memory"
	"sharecircle/internal/domain"
)

type fakeMedia struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeMedia) Save(_ context.Context, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "/uploads/" + filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakePublisher) Publish(_ context.Context, subject string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subjects...)
}

func seedUser(t *testing.T, store *memory.Store, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    name + "@example.com",
		Role:     domain.UserRoleBoth,
		JoinedAt: time.Now().UTC(),
		Rating:   5.0,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func newCatalogService(store *memory.Store) (*CatalogUsecase, *fakeMedia) {
	media := &fakeMedia{}
	svc := NewCatalogUsecase(store.Items(), store.Questions(), store.Users(), media, nil, zerolog.Nop())
	return svc, media
}

func validItemInput() CreateItemInput {
	return CreateItemInput{
		Title:       "Bookshelf",
		Description: "Solid pine, five shelves",
		Category:    "furniture",
		Condition:   "good",
		Location:    "Portland",
	}
}

func TestCreateItem(t *testing.T) {
	store := memory.NewStore()
	donor := seedUser(t, store, "donor")
	svc, media := newCatalogService(store)

	input := validItemInput()
	input.Images = []MediaFile{{Filename: "front.jpg", Data: []byte("jpg")}}

	item, err := svc.CreateItem(context.Background(), donor.ID, input)
	require.NoError(t, err)

	assert.Equal(t, domain.ItemStatusAvailable, item.Status)
	assert.Equal(t, donor.ID, item.DonorID)
	assert.Len(t, item.Images, 1)
	assert.Len(t, media.saved, 1)

	// Listing an item moves the donor's derived counter.
	updated, err := store.Users().GetByID(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DonationsMade)
}

func TestCreateItem_Validation(t *testing.T) {
	store := memory.NewStore()
	donor := seedUser(t, store, "donor")
	svc, _ := newCatalogService(store)

	input := validItemInput()
	input.Title = "  "
	_, err := svc.CreateItem(context.Background(), donor.ID, input)
	require.ErrorIs(t, err, domain.ErrValidation)

	input = validItemInput()
	for i := 0; i < MaxItemImages+1; i++ {
		input.Images = append(input.Images, MediaFile{Filename: "a.jpg"})
	}
	_, err = svc.CreateItem(context.Background(), donor.ID, input)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "at most 5 images per item")
}

func TestListItems_FiltersAndSort(t *testing.T) {
	store := memory.NewStore()
	donor := seedUser(t, store, "donor")
	svc, _ := newCatalogService(store)

	older := validItemInput()
	older.Title = "Winter coat"
	older.Category = "clothing"
	first, err := svc.CreateItem(context.Background(), donor.ID, older)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := svc.CreateItem(context.Background(), donor.ID, validItemInput())
	require.NoError(t, err)

	all, err := svc.ListItems(context.Background(), domain.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first by default")

	oldest, err := svc.ListItems(context.Background(), domain.ItemFilter{Sort: domain.ItemSortOldest})
	require.NoError(t, err)
	assert.Equal(t, first.ID, oldest[0].ID)

	clothing, err := svc.ListItems(context.Background(), domain.ItemFilter{Category: "clothing"})
	require.NoError(t, err)
	require.Len(t, clothing, 1)
	assert.Equal(t, first.ID, clothing[0].ID)

	matched, err := svc.ListItems(context.Background(), domain.ItemFilter{Search: "coat"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, first.ID, matched[0].ID)
}

func TestGetItem(t *testing.T) {
	store := memory.NewStore()
	donor := seedUser(t, store, "donor")
	asker := seedUser(t, store, "asker")
	svc, _ := newCatalogService(store)

	item, err := svc.CreateItem(context.Background(), donor.ID, validItemInput())
	require.NoError(t, err)

	_, err = svc.CreateQuestion(context.Background(), asker.ID, item.ID, "Does it disassemble?")
	require.NoError(t, err)

	detail, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)

	assert.Equal(t, item.ID, detail.Item.ID)
	assert.Equal(t, donor.Name, detail.Donor.Name)
	require.Len(t, detail.Questions, 1)
	assert.Equal(t, asker.Name, detail.Questions[0].UserName)
}

func TestGetItem_NotFound(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newCatalogService(store)

	_, err := svc.GetItem(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "item not found")
}

func TestAnswerQuestion(t *testing.T) {
	store := memory.NewStore()
	donor := seedUser(t, store, "donor")
	asker := seedUser(t, store, "asker")
	svc, _ := newCatalogService(store)

	item, err := svc.CreateItem(context.Background(), donor.ID, validItemInput())
	require.NoError(t, err)
	question, err := svc.CreateQuestion(context.Background(), asker.ID, item.ID, "Still available?")
	require.NoError(t, err)

	// Only the donor may answer.
	_, err = svc.AnswerQuestion(context.Background(), asker.ID, question.ID, "Yes")
	require.ErrorIs(t, err, domain.ErrForbidden)

	answered, err := svc.AnswerQuestion(context.Background(), donor.ID, question.ID, "Yes, come pick it up")
	require.NoError(t, err)
	require.NotNil(t, answered.Answer)
	assert.Equal(t, "Yes, come pick it up", *answered.Answer)
	assert.NotNil(t, answered.AnsweredAt)
}
