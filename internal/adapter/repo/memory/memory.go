// Package memory holds in-memory repository implementations with the same
// concurrency guarantees as the postgres adapters. They back the service and
// handler tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"sharecircle/internal/domain"
)

// Store is a process-local database. One mutex covers every table so that
// cross-table moves (approve, claim, complete) stay atomic, matching the
// transactional behavior of the postgres adapters.
type Store struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	items     map[string]*domain.Item
	requests  map[string]*domain.Request
	questions map[string]*domain.Question
	logistics map[string]*domain.Logistics
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*domain.User),
		items:     make(map[string]*domain.Item),
		requests:  make(map[string]*domain.Request),
		questions: make(map[string]*domain.Question),
		logistics: make(map[string]*domain.Logistics),
	}
}

func (s *Store) Users() *UserRepo          { return &UserRepo{s} }
func (s *Store) Items() *ItemRepo          { return &ItemRepo{s} }
func (s *Store) Requests() *RequestRepo    { return &RequestRepo{s} }
func (s *Store) Questions() *QuestionRepo  { return &QuestionRepo{s} }
func (s *Store) Logistics() *LogisticsRepo { return &LogisticsRepo{s} }
func (s *Store) Stats() *StatsRepo         { return &StatsRepo{s} }

// UserRepo implements domain.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ConflictError("email already in use")
		}
	}
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFoundError("user not found")
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.NotFoundError("user not found")
}

// ItemRepo implements domain.ItemRepository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *item
	r.s.items[item.ID] = &clone
	if u, ok := r.s.users[item.DonorID]; ok {
		u.DonationsMade++
	}
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getItem(id)
}

func (r *ItemRepo) ListAvailable(_ context.Context, filter domain.ItemFilter) ([]domain.ItemWithDonor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.ItemWithDonor
	for _, item := range r.s.items {
		if item.Status != domain.ItemStatusAvailable {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(item.Title), needle) &&
				!strings.Contains(strings.ToLower(item.Description), needle) {
				continue
			}
		}
		entry := domain.ItemWithDonor{Item: *item}
		if donor, ok := r.s.users[item.DonorID]; ok {
			entry.Donor = domain.DonorSummary{
				ID:            donor.ID,
				Name:          donor.Name,
				JoinedAt:      donor.JoinedAt,
				DonationsMade: donor.DonationsMade,
				Rating:        donor.Rating,
			}
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if filter.Sort == domain.ItemSortOldest {
			return out[i].PostedAt.Before(out[j].PostedAt)
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

// RequestRepo implements domain.RequestRepository.
type RequestRepo struct{ s *Store }

func (r *RequestRepo) Create(_ context.Context, request *domain.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.requests {
		if existing.ItemID == request.ItemID && existing.RequesterID == request.RequesterID &&
			existing.Status != domain.RequestStatusRejected {
			return domain.ConflictError("you have already requested this item")
		}
	}
	clone := *request
	r.s.requests[request.ID] = &clone
	if u, ok := r.s.users[request.RequesterID]; ok {
		u.RequestsMade++
	}
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getRequest(id)
}

func (r *RequestRepo) ListByRequester(_ context.Context, userID string) ([]domain.RequestDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listRequests(func(req *domain.Request, _ *domain.Item) bool {
		return req.RequesterID == userID
	}), nil
}

func (r *RequestRepo) ListReceived(_ context.Context, donorID string) ([]domain.RequestDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listRequests(func(_ *domain.Request, item *domain.Item) bool {
		return item != nil && item.DonorID == donorID
	}), nil
}

func (r *RequestRepo) Approve(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, err := r.s.getRequest(id)
	if err != nil {
		return err
	}
	stored := r.s.requests[id]
	if stored.Status != domain.RequestStatusPending {
		return domain.ConflictError("request has already been resolved")
	}
	item, ok := r.s.items[request.ItemID]
	if !ok {
		return domain.NotFoundError("item not found")
	}
	if item.Status != domain.ItemStatusAvailable {
		return domain.ConflictError("item is no longer available")
	}

	item.Status = domain.ItemStatusPending
	stored.Status = domain.RequestStatusApproved
	return nil
}

func (r *RequestRepo) Reject(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[id]
	if !ok {
		return domain.NotFoundError("request not found")
	}
	if stored.Status != domain.RequestStatusPending {
		return domain.ConflictError("request has already been resolved")
	}
	stored.Status = domain.RequestStatusRejected
	return nil
}

// QuestionRepo implements domain.QuestionRepository.
type QuestionRepo struct{ s *Store }

func (r *QuestionRepo) Create(_ context.Context, question *domain.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *question
	r.s.questions[question.ID] = &clone
	return nil
}

func (r *QuestionRepo) GetByID(_ context.Context, id string) (*domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.questions[id]
	if !ok {
		return nil, domain.NotFoundError("question not found")
	}
	clone := *q
	return &clone, nil
}

func (r *QuestionRepo) Answer(_ context.Context, id, answer string, answeredAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.questions[id]
	if !ok {
		return domain.NotFoundError("question not found")
	}
	q.Answer = &answer
	q.AnsweredAt = &answeredAt
	return nil
}

func (r *QuestionRepo) ListByItem(_ context.Context, itemID string) ([]domain.QuestionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.QuestionDetail
	for _, q := range r.s.questions {
		if q.ItemID != itemID {
			continue
		}
		detail := domain.QuestionDetail{Question: *q}
		if u, ok := r.s.users[q.UserID]; ok {
			detail.UserName = u.Name
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AskedAt.After(out[j].AskedAt) })
	return out, nil
}

// LogisticsRepo implements domain.LogisticsRepository.
type LogisticsRepo struct{ s *Store }

func (r *LogisticsRepo) Create(_ context.Context, logistics *domain.Logistics, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.logistics {
		if l.RequestID == logistics.RequestID {
			return domain.ConflictError("logistics already arranged for this request")
		}
	}
	clone := *logistics
	r.s.logistics[logistics.ID] = &clone
	if item, ok := r.s.items[itemID]; ok && item.Status == domain.ItemStatusPending {
		item.Status = domain.ItemStatusClaimed
	}
	return nil
}

func (r *LogisticsRepo) GetByID(_ context.Context, id string) (*domain.Logistics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.logistics[id]
	if !ok {
		return nil, domain.NotFoundError("logistics arrangement not found")
	}
	clone := *l
	return &clone, nil
}

func (r *LogisticsRepo) Update(_ context.Context, logistics *domain.Logistics, itemID string, prev domain.LogisticsStatus, completed bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.logistics[logistics.ID]
	if !ok {
		return domain.NotFoundError("logistics arrangement not found")
	}
	if stored.Status != prev {
		return domain.ConflictError("logistics arrangement was updated concurrently")
	}
	logistics.UpdatedAt = time.Now().UTC()
	*stored = *logistics
	if completed {
		if item, ok := r.s.items[itemID]; ok && item.Status == domain.ItemStatusClaimed {
			item.Status = domain.ItemStatusDelivered
		}
	}
	return nil
}

// StatsRepo implements domain.StatsRepository with the same aggregate rules
// as the postgres adapter.
type StatsRepo struct{ s *Store }

func (r *StatsRepo) Summary(_ context.Context) (*domain.CommunityStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &domain.CommunityStats{ItemsShared: len(r.s.items)}
	for _, item := range r.s.items {
		stats.WasteDivertedKg += weightKg(item.Weight)
	}
	helped := make(map[string]bool)
	for _, req := range r.s.requests {
		if req.Status == domain.RequestStatusApproved {
			helped[req.RequesterID] = true
		}
	}
	stats.MembersHelped = len(helped)
	return stats, nil
}

// weightKg extracts the numeric part of a free-text weight ("4.5 kg").
// Unparseable weights count as zero, the same rule the SQL aggregate applies.
func weightKg(weight string) float64 {
	var b strings.Builder
	for _, r := range weight {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	kg, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return kg
}

func (s *Store) getItem(id string) (*domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundError("item not found")
	}
	clone := *item
	return &clone, nil
}

func (s *Store) getRequest(id string) (*domain.Request, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, domain.NotFoundError("request not found")
	}
	clone := *request
	return &clone, nil
}

func (s *Store) listRequests(keep func(*domain.Request, *domain.Item) bool) []domain.RequestDetail {
	var out []domain.RequestDetail
	for _, req := range s.requests {
		item := s.items[req.ItemID]
		if !keep(req, item) {
			continue
		}
		detail := domain.RequestDetail{Request: *req}
		if item != nil {
			detail.ItemTitle = item.Title
			detail.ItemStatus = item.Status
			if donor, ok := s.users[item.DonorID]; ok {
				detail.DonorName = donor.Name
			}
		}
		if requester, ok := s.users[req.RequesterID]; ok {
			detail.RequesterName = requester.Name
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out
}
