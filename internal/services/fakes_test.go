package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"renthub_backend/internal/models"
	"renthub_backend/internal/repositories"
)

// In-memory repository fakes shared by the service tests. They follow the
// same contracts as the SQL implementations, including the store-side
// capacity guard.

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*models.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*models.Item)}
}

func (r *fakeItemRepo) add(item *models.Item) *models.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", len(r.items)+1)
	}
	r.items[item.ID] = item
	return item
}

func (r *fakeItemRepo) Create(item *models.Item) error {
	r.add(item)
	return nil
}

func (r *fakeItemRepo) FindByID(id string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) Update(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return repositories.ErrItemNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) ListApproved(city string, limit, offset int) ([]models.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, item := range r.items {
		if item.Moderation != models.ModerationStatusApproved {
			continue
		}
		if city != "" && item.City != city {
			continue
		}
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeItemRepo) ListByOwner(ownerID string) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) UpdateModeration(itemID string, status models.ModerationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return repositories.ErrItemNotFound
	}
	item.Moderation = status
	return nil
}

func (r *fakeItemRepo) SetAvailability(itemID, ownerID string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return repositories.ErrItemNotFound
	}
	item.IsAvailable = available
	return nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
	nextID       int

	// itemOwners backs ListByOwner; capacities backs the write guard.
	itemOwners map[string]string
	capacities map[string]int

	// guardEnabled applies the capacity check on Create and UpdateStatus
	// the way the store trigger does.
	guardEnabled bool

	createErr   error
	updateErr   error
	departedErr error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[string]*models.Reservation),
		itemOwners:   make(map[string]string),
		capacities:   make(map[string]int),
	}
}

func (r *fakeReservationRepo) trackItem(item *models.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemOwners[item.ID] = item.OwnerID
	r.capacities[item.ID] = item.Quantity
}

func (r *fakeReservationRepo) add(res *models.Reservation) *models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == "" {
		r.nextID++
		res.ID = fmt.Sprintf("res-%d", r.nextID)
	}
	r.reservations[res.ID] = res
	return res
}

// maxConsumedLocked returns the peak per-day consumed units over [start, end]
// among consuming reservations of the item, excluding excludeID.
func (r *fakeReservationRepo) maxConsumedLocked(itemID, excludeID string, start, end time.Time) int {
	peak := 0
	for d := models.DateOnly(start); !d.After(models.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		used := 0
		for _, res := range r.reservations {
			if res.ItemID != itemID || res.ID == excludeID || !res.Consuming() {
				continue
			}
			if res.Overlaps(d, d) {
				used += res.Quantity
			}
		}
		if used > peak {
			peak = used
		}
	}
	return peak
}

func (r *fakeReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	if r.guardEnabled && res.Consuming() {
		capacity := r.capacities[res.ItemID]
		if r.maxConsumedLocked(res.ItemID, res.ID, res.StartDate, res.EndDate)+res.Quantity > capacity {
			r.mu.Unlock()
			return repositories.ErrCapacityExceeded
		}
	}
	r.mu.Unlock()
	r.add(res)
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, repositories.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeReservationRepo) UpdateStatus(ctx context.Context, id string, expected, next models.ReservationStatus) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok || res.Status != expected {
		return 0, nil
	}
	if r.guardEnabled && models.IsConsumingStatus(next) && !res.Consuming() {
		capacity := r.capacities[res.ItemID]
		if r.maxConsumedLocked(res.ItemID, res.ID, res.StartDate, res.EndDate)+res.Quantity > capacity {
			return 0, repositories.ErrCapacityExceeded
		}
	}
	res.Status = next
	res.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeReservationRepo) ConsumedUnits(ctx context.Context, itemID string, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, res := range r.reservations {
		if res.ItemID != itemID || !res.Consuming() {
			continue
		}
		if res.Overlaps(start, end) {
			total += res.Quantity
		}
	}
	return total, nil
}

func (r *fakeReservationRepo) DepartedUnits(ctx context.Context, itemID string, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.departedErr != nil {
		return 0, r.departedErr
	}
	total := 0
	for _, res := range r.reservations {
		if res.ItemID != itemID {
			continue
		}
		departed := false
		for _, s := range models.DepartedStatuses() {
			if res.Status == s {
				departed = true
				break
			}
		}
		if departed && res.Overlaps(day, day) {
			total += res.Quantity
		}
	}
	return total, nil
}

func (r *fakeReservationRepo) ListByRenter(ctx context.Context, renterID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.reservations {
		if res.RenterID == renterID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.reservations {
		if r.itemOwners[res.ItemID] == ownerID {
			out = append(out, *res)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*models.Review // reservationID|reviewerID
	nextID  int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func reviewKey(reservationID, reviewerID string) string {
	return reservationID + "|" + reviewerID
}

func (r *fakeReviewRepo) Upsert(review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return repositories.ErrInvalidReviewRating
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reviewKey(review.ReservationID, review.ReviewerID)
	if existing, ok := r.reviews[key]; ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		existing.UpdatedAt = time.Now()
		return nil
	}
	r.nextID++
	review.ID = fmt.Sprintf("review-%d", r.nextID)
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	copied := *review
	r.reviews[key] = &copied
	return nil
}

func (r *fakeReviewRepo) FindByReservationAndReviewer(reservationID, reviewerID string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewKey(reservationID, reviewerID)]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) FindByLessor(lessorID string, limit, offset int) ([]models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Review
	for _, review := range r.reviews {
		if review.LessorID == lessorID {
			all = append(all, *review)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeReviewRepo) GetRatingStats(lessorID string) (*repositories.RatingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, count := 0, int64(0)
	for _, review := range r.reviews {
		if review.LessorID == lessorID {
			sum += review.Rating
			count++
		}
	}
	stats := &repositories.RatingStats{TotalReviews: count}
	if count > 0 {
		stats.AverageRating = float64(sum) / float64(count)
	}
	return stats, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateStatus(userID string, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Status = status
	return nil
}
